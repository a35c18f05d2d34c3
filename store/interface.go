package store

import (
	"time"

	"github.com/josephgoksu/flow/models"
)

// ItemFilter selects items on equality/range over the indexed columns.
// Zero values mean "no constraint".
type ItemFilter struct {
	Kind          models.ItemKind
	Status        models.ItemStatus
	ParentID      *string
	CreatedBefore time.Time
	CreatedAfter  time.Time
	UpdatedAfter  time.Time
}

// ItemStore is the narrow gateway the engine uses to read and write items.
// It owns no triage logic. Writes are full replacements with last-writer-wins
// semantics; only single-operation atomicity is guaranteed.
type ItemStore interface {
	// CreateItem inserts a new item. The id must already be assigned.
	CreateItem(item models.Item) (models.Item, error)

	// GetItem retrieves one item by id. Returns types.ErrNotFound (wrapped)
	// when the id is absent.
	GetItem(id string) (models.Item, error)

	// PutItem replaces an existing item wholesale, keyed by item.ID.
	PutItem(item models.Item) (models.Item, error)

	// ListItems returns items matching the filter in stable creation order.
	ListItems(filter ItemFilter) ([]models.Item, error)

	// GetItemByExternalRef looks an item up by its synchronization linkage.
	// Returns types.ErrNotFound when no item carries the ref.
	GetItemByExternalRef(ref string) (models.Item, error)

	// Close releases the underlying database handle.
	Close() error
}

// TagStore owns the shared tag vocabulary and its usage counters.
type TagStore interface {
	// IncrementTagUsage bumps the counter for name, creating the tag on
	// first use. Must be called exactly once per newly attached tag.
	IncrementTagUsage(name string) error

	// DecrementTagUsage lowers the counter, never below zero.
	DecrementTagUsage(name string) error

	// ListTags returns tags ordered by usage (most used first).
	ListTags(limit int) ([]models.Tag, error)

	// TagNames returns all vocabulary names ordered by usage, for prompts.
	TagNames() ([]string, error)

	// MergeTags folds one tag into another across items, resources, and
	// the vocabulary, keeping the merged name as an alias.
	MergeTags(from, to string) error
}

// ResourceStore persists saved references matched to tasks by tags.
type ResourceStore interface {
	CreateResource(r models.Resource) (models.Resource, error)
	GetResource(id string) (models.Resource, error)
	// FindResourcesByTags returns resources sharing at least one tag,
	// ordered by number of matching tags.
	FindResourcesByTags(tags []string, limit int) ([]models.Resource, error)
}

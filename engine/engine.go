// Package engine orchestrates the GTD lifecycle: capture, the triage
// funnel, defer/visibility transitions, and execution views. It performs no
// blocking I/O of its own beyond the injected store and oracle collaborators.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/flow/llm"
	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/store"
	"github.com/josephgoksu/flow/types"
	"github.com/josephgoksu/flow/vector"
)

// Store is the persistence surface the engine depends on.
type Store interface {
	store.ItemStore
	store.TagStore
	store.ResourceStore
}

// Engine wires the item store, tag vocabulary, and oracle capabilities
// behind the lifecycle operations.
type Engine struct {
	store   Store
	oracle  llm.Oracle
	vectors vector.Store
	tagging types.TaggingConfig
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithVectorStore enables semantic resource retrieval.
func WithVectorStore(vs vector.Store) Option {
	return func(e *Engine) { e.vectors = vs }
}

// New creates an engine over the given store and oracle.
func New(st Store, oracle llm.Oracle, tagging types.TaggingConfig, opts ...Option) *Engine {
	e := &Engine{store: st, oracle: oracle, tagging: tagging}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// VectorStore returns the semantic index, or nil when none is configured.
func (e *Engine) VectorStore() vector.Store {
	return e.vectors
}

// CaptureOptions tweak a single capture.
type CaptureOptions struct {
	// Tags are explicit tags; when set, auto-tagging is skipped.
	Tags []string
	// Extra is opaque provenance metadata attached as-is.
	Extra map[string]string
	// SkipAutoTag disables oracle tagging for this capture.
	SkipAutoTag bool
	// ExternalRef links the item to a synchronized reminder.
	ExternalRef string
}

// Capture creates an inbox item and persists it. Auto-tagging (when
// configured and no explicit tags are given) runs synchronously before
// Capture returns, so usage counters are durable once the process exits.
func (e *Engine) Capture(ctx context.Context, text string, opts CaptureOptions) (models.Item, error) {
	title := strings.TrimSpace(text)
	if title == "" {
		return models.Item{}, fmt.Errorf("capture: empty text")
	}

	item := models.NewInboxItem(title)
	item.ExternalRef = opts.ExternalRef
	if len(opts.Tags) > 0 {
		item.Tags = dedupeTags(opts.Tags)
	}
	for k, v := range opts.Extra {
		item.Extra[k] = v
	}

	created, err := e.store.CreateItem(item)
	if err != nil {
		return models.Item{}, err
	}

	if len(opts.Tags) == 0 && !opts.SkipAutoTag && e.tagging.AutoTag {
		if tagged, err := e.AutoTag(ctx, created.ID); err == nil {
			created = tagged
		}
		// Tagging is best-effort; a failed oracle never fails a capture.
	}
	return created, nil
}

// GetItem returns one item by id.
func (e *Engine) GetItem(id string) (models.Item, error) {
	return e.store.GetItem(id)
}

// GetItemByExternalRef returns the item linked to an external reminder id.
func (e *Engine) GetItemByExternalRef(ref string) (models.Item, error) {
	return e.store.GetItemByExternalRef(ref)
}

// UpdateItem persists caller-side edits to an item wholesale.
func (e *Engine) UpdateItem(item models.Item) (models.Item, error) {
	return e.store.PutItem(item)
}

// ListInbox returns open inbox items in capture order.
func (e *Engine) ListInbox() ([]models.Item, error) {
	return e.store.ListItems(store.ItemFilter{
		Kind:   models.KindInbox,
		Status: models.StatusActive,
	})
}

// NextActions returns the actionable execution view: active, non-project
// items whose tickler (if any) has elapsed.
func (e *Engine) NextActions(now time.Time) ([]models.Item, error) {
	items, err := e.store.ListItems(store.ItemFilter{Status: models.StatusActive})
	if err != nil {
		return nil, err
	}
	var actions []models.Item
	for _, it := range items {
		if it.Kind == models.KindProject {
			continue
		}
		if IsActionable(it, now) {
			actions = append(actions, it)
		}
	}
	return actions, nil
}

// Stale returns non-terminal items captured more than days ago, as archive
// candidates for review.
func (e *Engine) Stale(days int) ([]models.Item, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	items, err := e.store.ListItems(store.ItemFilter{CreatedBefore: cutoff})
	if err != nil {
		return nil, err
	}
	var stale []models.Item
	for _, it := range items {
		if !it.IsTerminal() {
			stale = append(stale, it)
		}
	}
	return stale, nil
}

// CompletedSynced returns done items that are linked to external reminders.
func (e *Engine) CompletedSynced() ([]models.Item, error) {
	items, err := e.store.ListItems(store.ItemFilter{Status: models.StatusDone})
	if err != nil {
		return nil, err
	}
	var synced []models.Item
	for _, it := range items {
		if it.ExternalRef != "" {
			synced = append(synced, it)
		}
	}
	return synced, nil
}

// SomedaySuggestions returns parked items to consider resurfacing.
func (e *Engine) SomedaySuggestions() ([]models.Item, error) {
	return e.store.ListItems(store.ItemFilter{Status: models.StatusSomeday})
}

// Resurface sets a parked item back to active.
func (e *Engine) Resurface(id string) (models.Item, error) {
	item, err := e.store.GetItem(id)
	if err != nil {
		return models.Item{}, err
	}
	if item.Status == models.StatusActive {
		return item, nil
	}
	item.Status = models.StatusActive
	return e.store.PutItem(item)
}

// WeeklyReport renders a markdown summary of items completed in the last
// days. Completion bumps updated_at, so an old capture finished yesterday
// still counts.
func (e *Engine) WeeklyReport(days int) (string, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	done, err := e.store.ListItems(store.ItemFilter{
		Status:       models.StatusDone,
		UpdatedAfter: since,
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Flow Weekly Report\n\n")
	fmt.Fprintf(&sb, "**Completed this week:** %d items\n\n## Done\n\n", len(done))
	for _, item := range done {
		title := item.Title
		if len(title) > 80 {
			title = title[:80] + "..."
		}
		fmt.Fprintf(&sb, "- %s\n", title)
	}
	return sb.String(), nil
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

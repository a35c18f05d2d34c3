package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ItemKind classifies an item within the GTD lifecycle.
type ItemKind string

const (
	KindInbox     ItemKind = "inbox"
	KindAction    ItemKind = "action"
	KindProject   ItemKind = "project"
	KindReference ItemKind = "reference"
)

// ItemStatus governs visibility of an item.
type ItemStatus string

const (
	StatusActive   ItemStatus = "active"
	StatusDone     ItemStatus = "done"
	StatusWaiting  ItemStatus = "waiting"
	StatusSomeday  ItemStatus = "someday"
	StatusArchived ItemStatus = "archived"
)

// ProjectMode controls which children of a project are exposed as next actions.
type ProjectMode string

const (
	ModeSequential ProjectMode = "sequential"
	ModeParallel   ProjectMode = "parallel"
)

// Contractual keys of the Extra payload. Everything else in Extra is opaque
// provenance metadata and passes through untouched.
const (
	ExtraDeferUntil = "defer_until"
	ExtraDeferNote  = "defer_note"
)

// Item is the single polymorphic entity: inbox capture, next action,
// project, or reference. Kind is reclassified during triage; identity is
// stable for the item's whole life.
type Item struct {
	ID                string            `json:"id" validate:"required,uuid4"`
	Kind              ItemKind          `json:"kind" validate:"required,oneof=inbox action project reference"`
	Title             string            `json:"title" validate:"required,min=1"`
	Status            ItemStatus        `json:"status" validate:"required,oneof=active done waiting someday archived"`
	Tags              []string          `json:"tags,omitempty"`
	ParentID          *string           `json:"parentId,omitempty" validate:"omitempty,uuid4"`
	Mode              ProjectMode       `json:"mode,omitempty" validate:"omitempty,oneof=sequential parallel"`
	CreatedAt         time.Time         `json:"createdAt" validate:"required"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	DueDate           *time.Time        `json:"dueDate,omitempty"`
	EstimatedDuration *int              `json:"estimatedDuration,omitempty" validate:"omitempty,min=1"`
	Priority          int               `json:"priority,omitempty" validate:"omitempty,min=0"`
	Energy            string            `json:"energy,omitempty" validate:"omitempty,oneof=low high"`
	Extra             map[string]string `json:"extra,omitempty"`
	ExternalRef       string            `json:"externalRef,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct runs validator tags on any model struct.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// NewInboxItem creates a freshly captured item: kind=inbox, status=active.
func NewInboxItem(title string) Item {
	now := time.Now().UTC()
	return Item{
		ID:        uuid.New().String(),
		Kind:      KindInbox,
		Title:     strings.TrimSpace(title),
		Status:    StatusActive,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		Extra:     map[string]string{},
	}
}

// NewProject creates an active project item.
func NewProject(name string) Item {
	p := NewInboxItem(name)
	p.Kind = KindProject
	p.Mode = ModeSequential
	return p
}

// IsTerminal reports whether the item is in a retained terminal state.
func (i Item) IsTerminal() bool {
	return i.Status == StatusDone || i.Status == StatusArchived
}

// HasTag reports whether the item carries the given tag.
func (i Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DeferUntil returns the parsed tickler timestamp, if present and well
// formed. Malformed values read as absent so a bad timestamp can never hide
// a task permanently.
func (i Item) DeferUntil() (time.Time, bool) {
	raw, ok := i.Extra[ExtraDeferUntil]
	if !ok || raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidateParent enforces the one-level task→project relation: the parent
// must be an active project, a project can never be a child, and an item is
// never its own parent. Checked before any write that sets ParentID.
func ValidateParent(child, parent Item) error {
	if child.ID == parent.ID {
		return fmt.Errorf("item %s cannot be its own parent", child.ID)
	}
	if parent.Kind != KindProject {
		return fmt.Errorf("parent %s is %s, not a project", parent.ID, parent.Kind)
	}
	if parent.Status != StatusActive {
		return fmt.Errorf("parent project %s is not active (status %s)", parent.ID, parent.Status)
	}
	if child.Kind == KindProject {
		return fmt.Errorf("project %s cannot be a child of another project", child.ID)
	}
	return nil
}

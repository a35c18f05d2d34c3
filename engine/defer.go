package engine

import (
	"time"

	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
)

// DeferMode selects how an item leaves the immediate execution view.
type DeferMode string

const (
	// DeferWaiting blocks the item on someone or something else.
	DeferWaiting DeferMode = "waiting"
	// DeferSomeday parks the item indefinitely.
	DeferSomeday DeferMode = "someday"
	// DeferUntil hides the item until a tickler timestamp elapses; the
	// item stays active (scheduled, not blocked).
	DeferUntil DeferMode = "until"
)

// IsActionable reports whether the item belongs in next-action views at the
// given instant: it must be active and any tickler must have elapsed. A
// malformed defer_until value reads as absent, so a bad timestamp can never
// hide a task permanently.
func IsActionable(item models.Item, now time.Time) bool {
	if item.Status != models.StatusActive {
		return false
	}
	if until, ok := item.DeferUntil(); ok && until.After(now) {
		return false
	}
	return true
}

// Defer applies one of the three defer modes to the item. All modes are
// idempotent given the same target state. DeferUntil requires a parsed
// timestamp from the caller; the engine does no text parsing.
func (e *Engine) Defer(id string, mode DeferMode, until *time.Time, note string) (models.Item, error) {
	item, err := e.store.GetItem(id)
	if err != nil {
		return models.Item{}, err
	}

	switch mode {
	case DeferWaiting:
		item.Status = models.StatusWaiting
		if note != "" {
			item.Extra[models.ExtraDeferNote] = note
		}
	case DeferSomeday:
		item.Status = models.StatusSomeday
	case DeferUntil:
		if until == nil {
			return models.Item{}, &types.InvalidTransitionError{ID: id, Reason: "defer until requires a timestamp"}
		}
		// Status stays active: scheduled, not blocked.
		item.Extra[models.ExtraDeferUntil] = until.UTC().Format(time.RFC3339)
		if note != "" {
			item.Extra[models.ExtraDeferNote] = note
		}
	default:
		return models.Item{}, &types.InvalidTransitionError{ID: id, Reason: "unknown defer mode " + string(mode)}
	}
	return e.store.PutItem(item)
}

// Complete marks the item done. Completing a done item is a no-op.
func (e *Engine) Complete(id string) (models.Item, error) {
	item, err := e.store.GetItem(id)
	if err != nil {
		return models.Item{}, err
	}
	if item.Status == models.StatusDone {
		return item, nil
	}
	item.Status = models.StatusDone
	return e.store.PutItem(item)
}

// Archive retains the item outside of active work.
func (e *Engine) Archive(id string) (models.Item, error) {
	item, err := e.store.GetItem(id)
	if err != nil {
		return models.Item{}, err
	}
	if item.Status == models.StatusArchived {
		return item, nil
	}
	item.Status = models.StatusArchived
	return e.store.PutItem(item)
}

// Package sync pulls externally captured reminders into the inbox. The
// platform bridge (how reminders are fetched) stays behind an interface so
// the import logic is testable without one.
package sync

import (
	"context"
	"errors"

	"github.com/josephgoksu/flow/engine"
	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
)

// Reminder is one externally captured entry.
type Reminder struct {
	// ExternalID identifies the reminder on its source platform.
	ExternalID string
	Title      string
	Completed  bool
}

// Source lists reminders from an external capture surface.
type Source interface {
	List(ctx context.Context) ([]Reminder, error)
}

// Mover relocates a reminder between lists on its source platform. It must
// never hard-delete user data; finished reminders move to a done list
// instead.
type Mover interface {
	Move(ctx context.Context, externalID, targetList string) error
}

// Result summarizes one import run.
type Result struct {
	Created   int
	Updated   int
	Completed int
	Skipped   int
}

// Import upserts reminders by external id. An unseen reminder becomes a new
// inbox item; a seen one gets its title refreshed, and a completed one is
// marked done. Nothing is ever deleted on import, so re-running is safe.
func Import(ctx context.Context, eng *engine.Engine, src Source) (Result, error) {
	var res Result

	reminders, err := src.List(ctx)
	if err != nil {
		return res, err
	}

	for _, rem := range reminders {
		if rem.ExternalID == "" || rem.Title == "" {
			res.Skipped++
			continue
		}

		existing, err := eng.GetItemByExternalRef(rem.ExternalID)
		if errors.Is(err, types.ErrNotFound) {
			if rem.Completed {
				res.Skipped++
				continue
			}
			if _, err := eng.Capture(ctx, rem.Title, engine.CaptureOptions{
				ExternalRef: rem.ExternalID,
				Extra:       map[string]string{"source": "reminders"},
			}); err != nil {
				return res, err
			}
			res.Created++
			continue
		}
		if err != nil {
			return res, err
		}

		if rem.Completed {
			if existing.Status != models.StatusDone {
				if _, err := eng.Complete(existing.ID); err != nil {
					return res, err
				}
				res.Completed++
			} else {
				res.Skipped++
			}
			continue
		}

		changed := false
		if existing.Title != rem.Title {
			existing.Title = rem.Title
			changed = true
		}
		if existing.Status == models.StatusArchived {
			// A reminder that reappears upstream comes back from the
			// archive rather than being duplicated.
			existing.Status = models.StatusActive
			changed = true
		}
		if changed {
			if _, err := eng.UpdateItem(existing); err != nil {
				return res, err
			}
			res.Updated++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

// PushCompleted moves reminders whose linked items are done over to
// targetList on the source platform. Returns how many were moved.
func PushCompleted(ctx context.Context, eng *engine.Engine, mover Mover, targetList string) (int, error) {
	done, err := eng.CompletedSynced()
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, item := range done {
		if err := mover.Move(ctx, item.ExternalRef, targetList); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

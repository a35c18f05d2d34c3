package engine

import (
	"time"

	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/store"
	"github.com/josephgoksu/flow/types"
)

// ListProjects returns active projects in creation order. Projects in any
// other status are excluded from listings entirely.
func (e *Engine) ListProjects() ([]models.Item, error) {
	return e.store.ListItems(store.ItemFilter{
		Kind:   models.KindProject,
		Status: models.StatusActive,
	})
}

// ProjectChildren returns a project's action children in stable creation
// order, regardless of status.
func (e *Engine) ProjectChildren(projectID string) ([]models.Item, error) {
	project, err := e.store.GetItem(projectID)
	if err != nil {
		return nil, err
	}
	if project.Kind != models.KindProject {
		return nil, &types.InvalidTransitionError{ID: projectID, Reason: "not a project"}
	}
	return e.store.ListItems(store.ItemFilter{ParentID: &project.ID})
}

// NextActionsFor resolves which child action(s) of a project are currently
// "next". A sequential project exposes only its first unfinished child, and
// only while that child is actionable: an earlier blocked child hides the
// rest of the chain. A parallel project exposes every actionable child.
func (e *Engine) NextActionsFor(projectID string, now time.Time) ([]models.Item, error) {
	project, err := e.store.GetItem(projectID)
	if err != nil {
		return nil, err
	}
	if project.Kind != models.KindProject {
		return nil, &types.InvalidTransitionError{ID: projectID, Reason: "not a project"}
	}

	children, err := e.store.ListItems(store.ItemFilter{ParentID: &project.ID})
	if err != nil {
		return nil, err
	}

	if project.Mode == models.ModeParallel {
		var next []models.Item
		for _, child := range children {
			if IsActionable(child, now) {
				next = append(next, child)
			}
		}
		return next, nil
	}

	// Sequential (default): finished children fall out of the chain; the
	// first unfinished one is the blocker.
	for _, child := range children {
		if child.IsTerminal() {
			continue
		}
		if IsActionable(child, now) {
			return []models.Item{child}, nil
		}
		return nil, nil
	}
	return nil, nil
}

// SetProjectMode switches a project's child-visibility policy.
func (e *Engine) SetProjectMode(projectID string, mode models.ProjectMode) (models.Item, error) {
	project, err := e.store.GetItem(projectID)
	if err != nil {
		return models.Item{}, err
	}
	if project.Kind != models.KindProject {
		return models.Item{}, &types.InvalidTransitionError{ID: projectID, Reason: "not a project"}
	}
	project.Mode = mode
	return e.store.PutItem(project)
}

// AttachToProject reparents an item under a project, reclassifying it to an
// action. The parent invariant is checked before any write.
func (e *Engine) AttachToProject(itemID, projectID string) (models.Item, error) {
	item, err := e.store.GetItem(itemID)
	if err != nil {
		return models.Item{}, err
	}
	project, err := e.store.GetItem(projectID)
	if err != nil {
		return models.Item{}, err
	}
	if err := models.ValidateParent(item, project); err != nil {
		return models.Item{}, &types.InvalidTransitionError{ID: itemID, Reason: err.Error()}
	}
	item.ParentID = &project.ID
	item.Kind = models.KindAction
	return e.store.PutItem(item)
}

// DetachFromProject clears an item's parent and keeps it an action.
func (e *Engine) DetachFromProject(itemID string) (models.Item, error) {
	item, err := e.store.GetItem(itemID)
	if err != nil {
		return models.Item{}, err
	}
	if item.Kind == models.KindProject {
		return models.Item{}, &types.InvalidTransitionError{ID: itemID, Reason: "cannot detach a project"}
	}
	item.ParentID = nil
	item.Kind = models.KindAction
	return e.store.PutItem(item)
}

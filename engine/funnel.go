package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/flow/llm"
	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
)

// QuickWinAction is the user's choice for an item under the effort cutoff.
type QuickWinAction string

const (
	QuickWinDoNow QuickWinAction = "do-now"
	QuickWinDefer QuickWinAction = "defer"
	QuickWinSkip  QuickWinAction = "skip"
)

// QuickWinOutcome carries the do-now/defer decision; a defer opens the
// three-way chooser.
type QuickWinOutcome struct {
	Action     QuickWinAction
	DeferMode  DeferMode
	DeferUntil *time.Time
	DeferNote  string
}

// ClarifyAction is the user's choice for a suggested title rewrite.
type ClarifyAction string

const (
	ClarifyAccept ClarifyAction = "accept"
	ClarifyEdit   ClarifyAction = "edit"
	ClarifySkip   ClarifyAction = "skip"
)

// ClarifyOutcome carries the clarify decision; Title holds the manual text
// for ClarifyEdit.
type ClarifyOutcome struct {
	Action ClarifyAction
	Title  string
}

// Decider supplies the user's decisions to the funnel, keeping presentation
// surfaces out of the core. Implementations may prompt interactively or
// apply a fixed policy.
type Decider interface {
	// ResolveDuplicate decides merge vs keep-both for a similar pair.
	ResolveDuplicate(a, b models.Item, score float64) (merge bool, err error)
	// AcceptCluster decides whether to create the suggested project.
	AcceptCluster(name string, items []models.Item) (bool, error)
	// ResolveQuickWin decides do-now/defer for an item under the cutoff.
	ResolveQuickWin(item models.Item) (QuickWinOutcome, error)
	// ResolveClarify decides on a coached title suggestion.
	ResolveClarify(item models.Item, suggestion llm.CoachSuggestion) (ClarifyOutcome, error)
}

// AcceptAll is the non-interactive policy: merge duplicates, accept
// clusters, do quick wins now, accept coaching suggestions.
type AcceptAll struct{}

func (AcceptAll) ResolveDuplicate(_, _ models.Item, _ float64) (bool, error) { return true, nil }
func (AcceptAll) AcceptCluster(_ string, _ []models.Item) (bool, error)      { return true, nil }
func (AcceptAll) ResolveQuickWin(_ models.Item) (QuickWinOutcome, error) {
	return QuickWinOutcome{Action: QuickWinDoNow}, nil
}
func (AcceptAll) ResolveClarify(_ models.Item, _ llm.CoachSuggestion) (ClarifyOutcome, error) {
	return ClarifyOutcome{Action: ClarifyAccept}, nil
}

// Summary counts what one funnel run did.
type Summary struct {
	Examined        int
	Merged          int
	ProjectsCreated int
	Completed       int
	Deferred        int
	Clarified       int
}

// Funnel drives the four sequential triage stages over an inbox batch.
// Every decision is persisted immediately, so a run can be abandoned at any
// point and resumed later from store state alone.
type Funnel struct {
	eng *Engine
	cfg types.TriageConfig
}

// NewFunnel creates a funnel over the engine with the given thresholds.
func NewFunnel(eng *Engine, cfg types.TriageConfig) *Funnel {
	return &Funnel{eng: eng, cfg: cfg}
}

// Run executes deduplicate → cluster → quick-win → clarify over the current
// inbox. Oracle failures degrade each stage to pass-through; structural
// store errors abort the run.
func (f *Funnel) Run(ctx context.Context, decider Decider) (Summary, error) {
	var sum Summary

	batch, err := f.eng.ListInbox()
	if err != nil {
		return sum, err
	}
	if f.cfg.BatchLimit > 0 && len(batch) > f.cfg.BatchLimit {
		batch = batch[:f.cfg.BatchLimit]
	}
	sum.Examined = len(batch)
	if len(batch) == 0 {
		return sum, nil
	}

	batch, err = f.deduplicate(ctx, batch, decider, &sum)
	if err != nil {
		return sum, err
	}
	batch, err = f.cluster(ctx, batch, decider, &sum)
	if err != nil {
		return sum, err
	}
	batch, err = f.quickWin(ctx, batch, decider, &sum)
	if err != nil {
		return sum, err
	}
	if err := f.clarify(ctx, batch, decider, &sum); err != nil {
		return sum, err
	}
	return sum, nil
}

// deduplicate presents similar pairs for merge/keep-both. Pairs are
// processed in ascending id order; after a merge the survivor re-enters the
// candidate set and the merged-away item is removed from all future pairs
// in the run.
func (f *Funnel) deduplicate(ctx context.Context, batch []models.Item, decider Decider, sum *Summary) ([]models.Item, error) {
	sort.Slice(batch, func(i, j int) bool { return batch[i].ID < batch[j].ID })

	removed := make(map[string]bool)
	for i := 0; i < len(batch); i++ {
		if removed[batch[i].ID] {
			continue
		}
		for j := i + 1; j < len(batch); j++ {
			if removed[batch[i].ID] {
				break
			}
			if removed[batch[j].ID] {
				continue
			}
			score, err := f.eng.oracle.Similarity(ctx, batch[i].Title, batch[j].Title)
			if err != nil {
				// Oracle down: no dedupe suggestions, pass through.
				if types.IsOracleError(err) {
					return survivors(batch, removed), nil
				}
				return nil, err
			}
			if score < f.cfg.DedupThreshold {
				continue
			}
			merge, err := decider.ResolveDuplicate(batch[i], batch[j], score)
			if err != nil {
				return nil, err
			}
			if !merge {
				continue
			}
			survivor, err := f.merge(batch[i], batch[j])
			if err != nil {
				return nil, err
			}
			batch[i] = survivor
			removed[batch[j].ID] = true
			sum.Merged++
		}
	}
	return survivors(batch, removed), nil
}

// merge folds remove into keep: titles concatenate, tags union, extra keys
// merge non-destructively with the survivor winning conflicts. The removed
// item is archived, never deleted.
func (f *Funnel) merge(keep, remove models.Item) (models.Item, error) {
	keep.Title = keep.Title + " / " + remove.Title

	var attached []string
	for _, tag := range remove.Tags {
		if !keep.HasTag(tag) {
			keep.Tags = append(keep.Tags, tag)
			attached = append(attached, tag)
		}
	}
	for k, v := range remove.Extra {
		if _, exists := keep.Extra[k]; !exists {
			keep.Extra[k] = v
		}
	}

	survivor, err := f.eng.store.PutItem(keep)
	if err != nil {
		return models.Item{}, err
	}
	for _, tag := range attached {
		if err := f.eng.store.IncrementTagUsage(tag); err != nil {
			return models.Item{}, err
		}
	}
	if _, err := f.eng.Archive(remove.ID); err != nil {
		return models.Item{}, err
	}
	return survivor, nil
}

// cluster groups remaining inbox items into projects. Accepted clusters
// reparent every member (kind becomes action); rejected or ungrouped items
// pass through unchanged. A project is never created with zero children,
// and a newly created project is not re-clustered in the same run.
func (f *Funnel) cluster(ctx context.Context, batch []models.Item, decider Decider, sum *Summary) ([]models.Item, error) {
	if len(batch) < 2 {
		return batch, nil
	}

	clusterInput := make([]llm.ClusterItem, len(batch))
	byID := make(map[string]int, len(batch))
	for i, it := range batch {
		clusterInput[i] = llm.ClusterItem{ID: it.ID, Title: it.Title}
		byID[it.ID] = i
	}

	suggestions, err := f.eng.oracle.Cluster(ctx, clusterInput)
	if err != nil {
		if types.IsOracleError(err) {
			return batch, nil
		}
		return nil, err
	}

	claimed := make(map[string]bool)
	for _, sug := range suggestions {
		var members []models.Item
		for _, id := range sug.ItemIDs {
			if idx, ok := byID[id]; ok && !claimed[id] {
				members = append(members, batch[idx])
			}
		}
		if len(members) == 0 || strings.TrimSpace(sug.Name) == "" {
			continue
		}
		accept, err := decider.AcceptCluster(sug.Name, members)
		if err != nil {
			return nil, err
		}
		if !accept {
			continue
		}

		project, err := f.eng.store.CreateItem(models.NewProject(sug.Name))
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			child, err := f.eng.AttachToProject(member.ID, project.ID)
			if err != nil {
				return nil, err
			}
			batch[byID[member.ID]] = child
			claimed[member.ID] = true
		}
		sum.ProjectsCreated++
	}
	return batch, nil
}

// quickWin applies the 2-minute rule in arrival order: items estimated under
// the cutoff are offered do-now or defer; everything else passes through.
func (f *Funnel) quickWin(ctx context.Context, batch []models.Item, decider Decider, sum *Summary) ([]models.Item, error) {
	sort.Slice(batch, func(i, j int) bool { return batch[i].CreatedAt.Before(batch[j].CreatedAt) })

	var remaining []models.Item
	for _, item := range batch {
		minutes := f.estimateEffort(ctx, item)
		if minutes >= f.cfg.QuickWinMinutes {
			remaining = append(remaining, item)
			continue
		}
		outcome, err := decider.ResolveQuickWin(item)
		if err != nil {
			return nil, err
		}
		switch outcome.Action {
		case QuickWinDoNow:
			done, err := f.eng.Complete(item.ID)
			if err != nil {
				return nil, err
			}
			remaining = append(remaining, done)
			sum.Completed++
		case QuickWinDefer:
			deferred, err := f.eng.Defer(item.ID, outcome.DeferMode, outcome.DeferUntil, outcome.DeferNote)
			if err != nil {
				return nil, err
			}
			remaining = append(remaining, deferred)
			sum.Deferred++
		default:
			remaining = append(remaining, item)
		}
	}
	return remaining, nil
}

// estimateEffort returns the item's known estimate, asking the oracle and
// falling back to the wordiness heuristic when absent.
func (f *Funnel) estimateEffort(ctx context.Context, item models.Item) int {
	if item.EstimatedDuration != nil {
		return *item.EstimatedDuration
	}
	// The raw estimate is compared against the cutoff unsnapped; bucketing
	// a 2 minute guess up to 5 would hide real quick wins.
	if minutes, err := f.eng.oracle.EstimateDuration(ctx, item.Title); err == nil {
		return minutes
	}
	return llm.EstimateDurationHeuristic(item.Title)
}

// clarify coaches remaining vague titles, then finalizes the batch:
// whatever is still classified inbox becomes an action, closing the run.
// Terminal items skip coaching but are still reclassified, so a quick win
// completed upstream leaves the run as a done action, not a done inbox item.
func (f *Funnel) clarify(ctx context.Context, batch []models.Item, decider Decider, sum *Summary) error {
	for _, item := range batch {
		if item.Kind == models.KindProject {
			continue
		}
		if !item.IsTerminal() && llm.IsVagueTitle(item.Title) {
			if err := f.coachOne(ctx, &item, decider, sum); err != nil {
				return err
			}
		}
		if item.Kind == models.KindInbox {
			current, err := f.eng.store.GetItem(item.ID)
			if err != nil {
				return err
			}
			current.Kind = models.KindAction
			if _, err := f.eng.store.PutItem(current); err != nil {
				return err
			}
		}
	}
	return nil
}

func survivors(batch []models.Item, removed map[string]bool) []models.Item {
	out := batch[:0]
	for _, it := range batch {
		if !removed[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

func (f *Funnel) coachOne(ctx context.Context, item *models.Item, decider Decider, sum *Summary) error {
	suggestion, err := f.eng.oracle.Coach(ctx, item.Title)
	if err != nil {
		if types.IsOracleError(err) {
			return nil
		}
		return err
	}

	outcome, err := decider.ResolveClarify(*item, suggestion)
	if err != nil {
		return err
	}

	var newTitle string
	switch outcome.Action {
	case ClarifyAccept:
		newTitle = suggestion.SuggestedTitle
	case ClarifyEdit:
		newTitle = strings.TrimSpace(outcome.Title)
	default:
		return nil
	}
	if newTitle == "" {
		return nil
	}

	current, err := f.eng.store.GetItem(item.ID)
	if err != nil {
		return err
	}
	current.Title = newTitle
	if current.EstimatedDuration == nil && outcome.Action == ClarifyAccept && suggestion.EstimatedDurationMinutes > 0 {
		d := llm.SnapDuration(suggestion.EstimatedDurationMinutes)
		current.EstimatedDuration = &d
	}
	updated, err := f.eng.store.PutItem(current)
	if err != nil {
		return err
	}
	*item = updated
	sum.Clarified++
	return nil
}

// Package focus picks the single best task for an available time window.
// Selection is a pure function of the candidate pool and the clock: no
// stores, no oracles, so the same inputs always dispatch the same task.
package focus

import (
	"sort"

	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
)

// SelectTask returns the best candidate for a window of availableMinutes,
// or false when the pool offers nothing suitable. An empty pool is a normal
// outcome, not an error.
//
// Short windows favor small or low-friction tasks, long windows favor deep
// work, and anything in between falls back to plain priority order. Ties
// break by capture time, then id, so dispatch is deterministic.
func SelectTask(availableMinutes int, pool []models.Item, cfg types.FocusConfig) (models.Item, bool) {
	if len(pool) == 0 {
		return models.Item{}, false
	}

	candidates := make([]models.Item, len(pool))
	copy(candidates, pool)
	sortByPriority(candidates)

	switch {
	case availableMinutes < cfg.ShortWindowMinutes:
		if item, ok := firstMatch(candidates, func(it models.Item) bool {
			return isShortTask(it, cfg) || it.HasTag(cfg.LowFrictionTag)
		}); ok {
			return item, true
		}
	case availableMinutes > cfg.LongWindowMinutes:
		if item, ok := firstMatch(candidates, isDeepWork); ok {
			return item, true
		}
	}

	// Fallback: a straight priority sort over the whole pool. The window is
	// advisory here; a top-priority task is worth starting even unfinished.
	return candidates[0], true
}

func isShortTask(it models.Item, cfg types.FocusConfig) bool {
	return it.EstimatedDuration != nil && *it.EstimatedDuration <= cfg.ShortTaskMinutes
}

// isDeepWork marks tasks worth a long uninterrupted block: explicitly
// high-energy, or carrying top priority.
func isDeepWork(it models.Item) bool {
	return it.Energy == "high" || it.Priority == 1
}

func firstMatch(items []models.Item, match func(models.Item) bool) (models.Item, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	return models.Item{}, false
}

// sortByPriority orders candidates best-first: explicit priority (1 is
// highest, 0 means unset and sorts last), then capture time, then id.
func sortByPriority(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := rank(items[i].Priority), rank(items[j].Priority)
		if pi != pj {
			return pi < pj
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func rank(priority int) int {
	if priority <= 0 {
		return 1 << 30
	}
	return priority
}

package focus

import (
	"testing"
	"time"

	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
)

func focusConfig() types.FocusConfig {
	return types.FocusConfig{
		ShortWindowMinutes: 30,
		LongWindowMinutes:  120,
		ShortTaskMinutes:   15,
		LowFrictionTag:     "admin",
	}
}

func task(title string, f func(*models.Item)) models.Item {
	item := models.NewInboxItem(title)
	item.Kind = models.KindAction
	if f != nil {
		f(&item)
	}
	return item
}

func minutes(n int) *int { return &n }

func TestEmptyPoolIsNoCandidate(t *testing.T) {
	if _, ok := SelectTask(60, nil, focusConfig()); ok {
		t.Error("empty pool must yield no candidate")
	}
}

func TestShortWindowPicksShortTask(t *testing.T) {
	pool := []models.Item{
		task("write the quarterly report", func(i *models.Item) { i.EstimatedDuration = minutes(120) }),
		task("sign the form", func(i *models.Item) { i.EstimatedDuration = minutes(10) }),
	}
	got, ok := SelectTask(20, pool, focusConfig())
	if !ok || got.Title != "sign the form" {
		t.Errorf("expected the short task, got %q (ok=%v)", got.Title, ok)
	}
}

func TestShortWindowAcceptsLowFrictionTag(t *testing.T) {
	pool := []models.Item{
		task("write the quarterly report", func(i *models.Item) { i.EstimatedDuration = minutes(120) }),
		task("expense the conference", func(i *models.Item) { i.Tags = []string{"admin"} }),
	}
	got, ok := SelectTask(20, pool, focusConfig())
	if !ok || got.Title != "expense the conference" {
		t.Errorf("expected the low-friction task, got %q", got.Title)
	}
}

func TestLongWindowPicksDeepWork(t *testing.T) {
	pool := []models.Item{
		task("sign the form", func(i *models.Item) { i.EstimatedDuration = minutes(10) }),
		task("design the storage layer", func(i *models.Item) { i.Energy = "high" }),
	}
	got, ok := SelectTask(180, pool, focusConfig())
	if !ok || got.Title != "design the storage layer" {
		t.Errorf("expected the deep-work task, got %q", got.Title)
	}
}

func TestLongWindowAcceptsTopPriority(t *testing.T) {
	pool := []models.Item{
		task("sign the form", nil),
		task("finish the migration", func(i *models.Item) { i.Priority = 1 }),
	}
	got, ok := SelectTask(180, pool, focusConfig())
	if !ok || got.Title != "finish the migration" {
		t.Errorf("expected the top-priority task, got %q", got.Title)
	}
}

func TestMediumWindowFallsBackToPriority(t *testing.T) {
	pool := []models.Item{
		task("low priority", func(i *models.Item) { i.Priority = 3 }),
		task("high priority", func(i *models.Item) { i.Priority = 1 }),
	}
	got, ok := SelectTask(60, pool, focusConfig())
	if !ok || got.Title != "high priority" {
		t.Errorf("expected the highest priority task, got %q", got.Title)
	}
}

func TestFallbackIgnoresDurationFit(t *testing.T) {
	// The fallback is a plain priority sort: an oversized top-priority task
	// still beats a lower-priority one that happens to fit the window.
	pool := []models.Item{
		task("marathon", func(i *models.Item) {
			i.Priority = 1
			i.EstimatedDuration = minutes(240)
		}),
		task("small chore", func(i *models.Item) {
			i.Priority = 2
			i.EstimatedDuration = minutes(45)
		}),
	}
	got, ok := SelectTask(60, pool, focusConfig())
	if !ok || got.Title != "marathon" {
		t.Errorf("expected the top-priority task, got %q", got.Title)
	}
}

func TestTiesBreakByCaptureTimeThenID(t *testing.T) {
	older := task("older", nil)
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := task("newer", nil)
	newer.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	got, ok := SelectTask(60, []models.Item{newer, older}, focusConfig())
	if !ok || got.Title != "older" {
		t.Errorf("expected the older capture, got %q", got.Title)
	}

	// Same timestamp: the lower id wins regardless of input order.
	twinA := task("twin", nil)
	twinB := task("twin", nil)
	twinB.CreatedAt = twinA.CreatedAt
	want := twinA.ID
	if twinB.ID < twinA.ID {
		want = twinB.ID
	}
	got, _ = SelectTask(60, []models.Item{twinB, twinA}, focusConfig())
	if got.ID != want {
		t.Errorf("expected lowest id to win the tie")
	}

	// Input order must not matter.
	got2, _ := SelectTask(60, []models.Item{twinA, twinB}, focusConfig())
	if got2.ID != got.ID {
		t.Error("selection depends on input order")
	}
}

func TestSelectionDoesNotMutatePool(t *testing.T) {
	a := task("a", func(i *models.Item) { i.Priority = 2 })
	b := task("b", func(i *models.Item) { i.Priority = 1 })
	pool := []models.Item{a, b}

	_, _ = SelectTask(60, pool, focusConfig())
	if pool[0].ID != a.ID || pool[1].ID != b.ID {
		t.Error("pool order must be preserved")
	}
}

package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/flow/llm"
	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/store"
	"github.com/josephgoksu/flow/types"
)

// fakeOracle lets each test stub out exactly the capabilities it needs;
// everything unstubbed reports unavailable, like a disabled oracle.
type fakeOracle struct {
	similarity func(a, b string) (float64, error)
	cluster    func(items []llm.ClusterItem) ([]llm.ClusterSuggestion, error)
	coach      func(title string) (llm.CoachSuggestion, error)
	tags       func(text string, vocab []string) ([]string, error)
	duration   func(title string) (int, error)
}

func unavailable(capability string) error {
	return &types.OracleError{Capability: capability, Err: context.Canceled}
}

func (f *fakeOracle) Similarity(_ context.Context, a, b string) (float64, error) {
	if f.similarity == nil {
		return 0, unavailable("similarity")
	}
	return f.similarity(a, b)
}

func (f *fakeOracle) Cluster(_ context.Context, items []llm.ClusterItem) ([]llm.ClusterSuggestion, error) {
	if f.cluster == nil {
		return nil, unavailable("cluster")
	}
	return f.cluster(items)
}

func (f *fakeOracle) Coach(_ context.Context, title string) (llm.CoachSuggestion, error) {
	if f.coach == nil {
		return llm.CoachSuggestion{}, unavailable("coach")
	}
	return f.coach(title)
}

func (f *fakeOracle) ExtractTags(_ context.Context, text string, vocab []string) ([]string, error) {
	if f.tags == nil {
		return nil, unavailable("tagging")
	}
	return f.tags(text, vocab)
}

func (f *fakeOracle) EstimateDuration(_ context.Context, title string) (int, error) {
	if f.duration == nil {
		return 0, unavailable("duration")
	}
	return f.duration(title)
}

func newTestEngine(t *testing.T, oracle llm.Oracle) (*Engine, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "flow.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if oracle == nil {
		oracle = llm.Disabled()
	}
	return New(s, oracle, types.TaggingConfig{AutoTag: false, MaxTags: 5}), s
}

func TestCaptureCreatesInboxItem(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	item, err := eng.Capture(context.Background(), "  buy stamps ", CaptureOptions{})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if item.Title != "buy stamps" {
		t.Errorf("title not trimmed: %q", item.Title)
	}

	inbox, err := eng.ListInbox()
	if err != nil {
		t.Fatalf("list inbox: %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != item.ID {
		t.Errorf("captured item not in inbox")
	}
}

func TestCaptureRejectsEmptyText(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	if _, err := eng.Capture(context.Background(), "   ", CaptureOptions{}); err == nil {
		t.Error("expected error for blank capture")
	}
}

func TestCaptureWithExplicitTagsSkipsAutoTag(t *testing.T) {
	called := false
	oracle := &fakeOracle{tags: func(string, []string) ([]string, error) {
		called = true
		return []string{"should-not-appear"}, nil
	}}
	eng, _ := newTestEngine(t, oracle)
	eng.tagging.AutoTag = true

	item, err := eng.Capture(context.Background(), "buy stamps", CaptureOptions{
		Tags: []string{"errands", "errands", "post"},
	})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if called {
		t.Error("explicit tags must skip the tagging oracle")
	}
	if len(item.Tags) != 2 {
		t.Errorf("expected deduplicated explicit tags, got %v", item.Tags)
	}
}

func TestWeeklyReportListsDoneItems(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	item, err := eng.Capture(context.Background(), "write minutes", CaptureOptions{})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, err := eng.Complete(item.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	report, err := eng.WeeklyReport(7)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(report, "write minutes") {
		t.Errorf("report missing completed item:\n%s", report)
	}
	if !strings.Contains(report, "1 items") {
		t.Errorf("report missing count:\n%s", report)
	}
}

func TestWeeklyReportCountsOldCapturesFinishedRecently(t *testing.T) {
	eng, s := newTestEngine(t, nil)

	// Captured two weeks ago, finished just now. The report keys on when
	// the item was completed, not when it was captured.
	item := models.NewInboxItem("renew the passport")
	item.CreatedAt = time.Now().UTC().AddDate(0, 0, -14)
	item.UpdatedAt = item.CreatedAt
	if _, err := s.CreateItem(item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := eng.Complete(item.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	report, err := eng.WeeklyReport(7)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(report, "renew the passport") {
		t.Errorf("report missing recently finished item:\n%s", report)
	}
}

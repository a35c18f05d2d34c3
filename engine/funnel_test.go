package engine

import (
	"context"
	"testing"
	"time"

	"github.com/josephgoksu/flow/llm"
	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
)

func triageConfig() types.TriageConfig {
	return types.TriageConfig{QuickWinMinutes: 5, DedupThreshold: 0.75, BatchLimit: 25}
}

func TestFunnelPassThroughWithoutOracle(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	captureOne(t, eng, "mom's birthday")
	captureOne(t, eng, "taxes")

	sum, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Examined != 2 || sum.Merged != 0 || sum.ProjectsCreated != 0 {
		t.Errorf("oracle-less run must pass items through, got %+v", sum)
	}

	// Surviving items leave the inbox as plain actions.
	inbox, err := eng.ListInbox()
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(inbox) != 0 {
		t.Errorf("inbox should be empty after a run, %d left", len(inbox))
	}
	actions, err := eng.NextActions(time.Now().UTC())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(actions) != 2 {
		t.Errorf("expected 2 next actions, got %d", len(actions))
	}
}

func TestFunnelMergesDuplicates(t *testing.T) {
	eng, s := newTestEngine(t, &fakeOracle{
		similarity: func(a, b string) (float64, error) { return 0.9, nil },
	})
	first := captureOne(t, eng, "buy stamps")
	second := captureOne(t, eng, "get postage stamps")

	firstStored, _ := s.GetItem(first.ID)
	firstStored.Tags = []string{"errands"}
	firstStored.Extra["note"] = "post office closes at 5"
	if _, err := s.PutItem(firstStored); err != nil {
		t.Fatalf("put: %v", err)
	}
	secondStored, _ := s.GetItem(second.ID)
	secondStored.Tags = []string{"errands", "post"}
	secondStored.Extra["note"] = "conflicting note"
	secondStored.Extra["url"] = "https://post.example"
	if _, err := s.PutItem(secondStored); err != nil {
		t.Fatalf("put: %v", err)
	}

	sum, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Merged != 1 {
		t.Fatalf("expected 1 merge, got %d", sum.Merged)
	}

	// Ascending id order decides survivor vs merged-away.
	survivorID, loserID := first.ID, second.ID
	if second.ID < first.ID {
		survivorID, loserID = second.ID, first.ID
	}

	survivor, err := s.GetItem(survivorID)
	if err != nil {
		t.Fatalf("get survivor: %v", err)
	}
	if !survivor.HasTag("errands") || !survivor.HasTag("post") {
		t.Errorf("tags must be unioned, got %v", survivor.Tags)
	}
	if survivor.Extra["url"] != "https://post.example" {
		t.Errorf("extra must merge non-destructively, got %v", survivor.Extra)
	}
	if survivor.Extra["note"] == "conflicting note" && survivorID == first.ID {
		t.Error("survivor's extra value must win conflicts")
	}

	loser, err := s.GetItem(loserID)
	if err != nil {
		t.Fatalf("get loser: %v", err)
	}
	if loser.Status != models.StatusArchived {
		t.Errorf("merged-away item must be archived, got %s", loser.Status)
	}
}

func TestFunnelKeepBothOnDecline(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeOracle{
		similarity: func(a, b string) (float64, error) { return 0.9, nil },
	})
	captureOne(t, eng, "buy stamps")
	captureOne(t, eng, "get postage stamps")

	decider := declineDecider{}
	sum, err := NewFunnel(eng, triageConfig()).Run(context.Background(), decider)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Merged != 0 {
		t.Errorf("declined merges must keep both items, got %d merges", sum.Merged)
	}
	actions, _ := eng.NextActions(time.Now().UTC())
	if len(actions) != 2 {
		t.Errorf("expected both items to survive, got %d", len(actions))
	}
}

// declineDecider rejects every suggestion and skips every prompt.
type declineDecider struct{}

func (declineDecider) ResolveDuplicate(_, _ models.Item, _ float64) (bool, error) { return false, nil }
func (declineDecider) AcceptCluster(_ string, _ []models.Item) (bool, error)      { return false, nil }
func (declineDecider) ResolveQuickWin(_ models.Item) (QuickWinOutcome, error) {
	return QuickWinOutcome{Action: QuickWinSkip}, nil
}
func (declineDecider) ResolveClarify(_ models.Item, _ llm.CoachSuggestion) (ClarifyOutcome, error) {
	return ClarifyOutcome{Action: ClarifySkip}, nil
}

func TestFunnelCreatesProjectFromCluster(t *testing.T) {
	eng, s := newTestEngine(t, &fakeOracle{
		cluster: func(items []llm.ClusterItem) ([]llm.ClusterSuggestion, error) {
			var ids []string
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			return []llm.ClusterSuggestion{{Name: "Kitchen Renovation", ItemIDs: ids}}, nil
		},
	})
	a := captureOne(t, eng, "call tile guy")
	b := captureOne(t, eng, "order countertop samples")

	sum, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.ProjectsCreated != 1 {
		t.Fatalf("expected 1 project, got %d", sum.ProjectsCreated)
	}

	projects, err := eng.ListProjects()
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "Kitchen Renovation" {
		t.Fatalf("project not created: %+v", projects)
	}

	for _, id := range []string{a.ID, b.ID} {
		child, err := s.GetItem(id)
		if err != nil {
			t.Fatalf("get child: %v", err)
		}
		if child.ParentID == nil || *child.ParentID != projects[0].ID {
			t.Errorf("child %s not reparented", id)
		}
		if child.Kind != models.KindAction {
			t.Errorf("child kind should be action, got %s", child.Kind)
		}
	}
}

func TestFunnelNeverCreatesEmptyProject(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeOracle{
		cluster: func(items []llm.ClusterItem) ([]llm.ClusterSuggestion, error) {
			// Hallucinated ids and a nameless cluster must both be dropped.
			return []llm.ClusterSuggestion{
				{Name: "Ghost", ItemIDs: []string{"no-such-id"}},
				{Name: "", ItemIDs: []string{items[0].ID}},
			}, nil
		},
	})
	captureOne(t, eng, "call tile guy")
	captureOne(t, eng, "order countertop samples")

	sum, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.ProjectsCreated != 0 {
		t.Errorf("expected no projects, got %d", sum.ProjectsCreated)
	}
	projects, _ := eng.ListProjects()
	if len(projects) != 0 {
		t.Errorf("a project with zero children was created")
	}
}

func TestFunnelQuickWinDoNow(t *testing.T) {
	eng, s := newTestEngine(t, &fakeOracle{
		duration: func(title string) (int, error) {
			if title == "sign the form" {
				return 2, nil
			}
			return 60, nil
		},
	})
	quick := captureOne(t, eng, "sign the form")
	slow := captureOne(t, eng, "write the quarterly report")

	sum, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Completed != 1 {
		t.Errorf("expected 1 quick win completed, got %d", sum.Completed)
	}

	got, _ := s.GetItem(quick.ID)
	if got.Status != models.StatusDone {
		t.Errorf("quick win should be done, got %s", got.Status)
	}
	kept, _ := s.GetItem(slow.ID)
	if kept.Status != models.StatusActive {
		t.Errorf("slow item should stay active, got %s", kept.Status)
	}
}

func TestFunnelReclassifiesCompletedQuickWins(t *testing.T) {
	eng, s := newTestEngine(t, &fakeOracle{
		duration: func(string) (int, error) { return 2, nil },
	})
	quick := captureOne(t, eng, "sign the form")

	if _, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := s.GetItem(quick.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusDone {
		t.Fatalf("quick win should be done, got %s", got.Status)
	}
	if got.Kind != models.KindAction {
		t.Errorf("a done quick win must leave the inbox too, got kind %s", got.Kind)
	}
}

func TestFunnelLeavesNoInboxItemsBehind(t *testing.T) {
	// Accept-all over a mixed batch: a quick win done on the spot and two
	// slower tasks. Everything leaving the run is an action with a
	// post-triage status; nothing keeps the inbox classification.
	eng, s := newTestEngine(t, &fakeOracle{
		duration: func(title string) (int, error) {
			if title == "sign the form" {
				return 2, nil
			}
			return 60, nil
		},
	})
	ids := []string{
		captureOne(t, eng, "sign the form").ID,
		captureOne(t, eng, "write the quarterly report").ID,
		captureOne(t, eng, "renew the passport").ID,
	}

	if _, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	allowed := map[models.ItemStatus]bool{
		models.StatusActive:  true,
		models.StatusWaiting: true,
		models.StatusSomeday: true,
		models.StatusDone:    true,
	}
	for _, id := range ids {
		item, err := s.GetItem(id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if item.Kind != models.KindAction {
			t.Errorf("%q still classified %s", item.Title, item.Kind)
		}
		if !allowed[item.Status] {
			t.Errorf("%q has unexpected status %s", item.Title, item.Status)
		}
	}
}

func TestFunnelClarifyRewritesVagueTitle(t *testing.T) {
	eng, s := newTestEngine(t, &fakeOracle{
		coach: func(title string) (llm.CoachSuggestion, error) {
			return llm.CoachSuggestion{SuggestedTitle: "Call mom about her birthday", EstimatedDurationMinutes: 14}, nil
		},
	})
	vague := captureOne(t, eng, "mom's birthday")

	sum, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Clarified != 1 {
		t.Errorf("expected 1 clarified, got %d", sum.Clarified)
	}

	got, _ := s.GetItem(vague.ID)
	if got.Title != "Call mom about her birthday" {
		t.Errorf("title not rewritten: %q", got.Title)
	}
	if got.EstimatedDuration == nil || *got.EstimatedDuration != 15 {
		t.Errorf("duration should be backfilled to the nearest bucket, got %v", got.EstimatedDuration)
	}
	if got.Kind != models.KindAction {
		t.Errorf("clarified item should be an action, got %s", got.Kind)
	}
}

func TestFunnelResumable(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeOracle{
		similarity: func(a, b string) (float64, error) { return 0.9, nil },
	})
	captureOne(t, eng, "buy stamps")
	captureOne(t, eng, "get postage stamps")

	// First run merges and drains the inbox; a second run sees nothing,
	// confirming decisions were persisted, not held in memory.
	if _, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	sum, err := NewFunnel(eng, triageConfig()).Run(context.Background(), AcceptAll{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.Examined != 0 {
		t.Errorf("second run should see an empty inbox, examined %d", sum.Examined)
	}
}

func TestFunnelBatchLimit(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	for i := 0; i < 4; i++ {
		captureOne(t, eng, "item")
	}

	cfg := triageConfig()
	cfg.BatchLimit = 2
	sum, err := NewFunnel(eng, cfg).Run(context.Background(), AcceptAll{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Examined != 2 {
		t.Errorf("expected batch of 2, examined %d", sum.Examined)
	}

	inbox, _ := eng.ListInbox()
	if len(inbox) != 2 {
		t.Errorf("expected 2 items left for the next run, got %d", len(inbox))
	}
}

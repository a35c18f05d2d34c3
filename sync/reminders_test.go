package sync

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/josephgoksu/flow/engine"
	"github.com/josephgoksu/flow/llm"
	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/store"
	"github.com/josephgoksu/flow/types"
)

type staticSource []Reminder

func (s staticSource) List(ctx context.Context) ([]Reminder, error) {
	return s, nil
}

func newTestEngine(t *testing.T) (*engine.Engine, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "flow.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return engine.New(s, llm.Disabled(), types.TaggingConfig{}), s
}

func TestImportCreatesNewInboxItems(t *testing.T) {
	eng, _ := newTestEngine(t)

	res, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "r-1", Title: "buy stamps"},
		{ExternalID: "r-2", Title: "call the bank"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 2 {
		t.Errorf("expected 2 created, got %+v", res)
	}

	inbox, err := eng.ListInbox()
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("expected 2 inbox items, got %d", len(inbox))
	}
	if inbox[0].Extra["source"] != "reminders" {
		t.Errorf("provenance missing: %v", inbox[0].Extra)
	}
}

func TestImportIsIdempotent(t *testing.T) {
	eng, _ := newTestEngine(t)
	src := staticSource{{ExternalID: "r-1", Title: "buy stamps"}}

	if _, err := Import(context.Background(), eng, src); err != nil {
		t.Fatalf("first import: %v", err)
	}
	res, err := Import(context.Background(), eng, src)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if res.Created != 0 || res.Skipped != 1 {
		t.Errorf("re-import must not duplicate, got %+v", res)
	}

	inbox, _ := eng.ListInbox()
	if len(inbox) != 1 {
		t.Errorf("expected 1 item, got %d", len(inbox))
	}
}

func TestImportUpdatesTitleInPlace(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "r-1", Title: "buy stamps"},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}
	res, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "r-1", Title: "buy stamps and envelopes"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Updated != 1 {
		t.Errorf("expected 1 updated, got %+v", res)
	}

	item, err := eng.GetItemByExternalRef("r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Title != "buy stamps and envelopes" {
		t.Errorf("title not refreshed: %q", item.Title)
	}
}

func TestImportCompletesFinishedReminders(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "r-1", Title: "buy stamps"},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}
	res, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "r-1", Title: "buy stamps", Completed: true},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Completed != 1 {
		t.Errorf("expected 1 completed, got %+v", res)
	}

	item, _ := eng.GetItemByExternalRef("r-1")
	if item.Status != models.StatusDone {
		t.Errorf("expected done, got %s", item.Status)
	}
}

func TestImportResurfacesArchivedItems(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "r-1", Title: "buy stamps"},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}
	item, _ := eng.GetItemByExternalRef("r-1")
	if _, err := eng.Archive(item.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	res, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "r-1", Title: "buy stamps"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Updated != 1 {
		t.Errorf("expected 1 updated, got %+v", res)
	}

	item, _ = eng.GetItemByExternalRef("r-1")
	if item.Status != models.StatusActive {
		t.Errorf("archived item must come back active, got %s", item.Status)
	}
}

type recordingMover struct {
	moves map[string]string
}

func (m *recordingMover) Move(_ context.Context, externalID, targetList string) error {
	m.moves[externalID] = targetList
	return nil
}

func TestPushCompletedMovesDoneReminders(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "r-1", Title: "buy stamps"},
		{ExternalID: "r-2", Title: "call the bank"},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}
	item, _ := eng.GetItemByExternalRef("r-1")
	if _, err := eng.Complete(item.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	mover := &recordingMover{moves: map[string]string{}}
	moved, err := PushCompleted(context.Background(), eng, mover, "Done")
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if moved != 1 {
		t.Errorf("expected 1 moved, got %d", moved)
	}
	if mover.moves["r-1"] != "Done" {
		t.Errorf("done reminder not moved: %v", mover.moves)
	}
	if _, ok := mover.moves["r-2"]; ok {
		t.Error("unfinished reminder must stay put")
	}
}

func TestImportSkipsMalformedEntries(t *testing.T) {
	eng, _ := newTestEngine(t)

	res, err := Import(context.Background(), eng, staticSource{
		{ExternalID: "", Title: "no id"},
		{ExternalID: "r-1", Title: ""},
		{ExternalID: "r-2", Title: "done elsewhere", Completed: true},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Skipped != 3 || res.Created != 0 {
		t.Errorf("expected all skipped, got %+v", res)
	}
}

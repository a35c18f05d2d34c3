package store

import (
	"path/filepath"
	"testing"

	"github.com/josephgoksu/flow/models"
	"github.com/spf13/afero"
)

func TestBackupRestore(t *testing.T) {
	src := newTestStore(t)

	item := models.NewInboxItem("survive the backup")
	item.Tags = []string{"important"}
	if _, err := src.CreateItem(item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := src.IncrementTagUsage("important"); err != nil {
		t.Fatalf("increment: %v", err)
	}

	fs := afero.NewMemMapFs()
	path := filepath.Join("backups", "snap.json")
	if err := src.Backup(fs, path); err != nil {
		t.Fatalf("backup: %v", err)
	}

	dst := newTestStore(t)
	if err := dst.Restore(fs, path); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := dst.GetItem(item.ID)
	if err != nil {
		t.Fatalf("restored item missing: %v", err)
	}
	if got.Title != item.Title || len(got.Tags) != 1 {
		t.Errorf("restored item differs: %+v", got)
	}

	tags, err := dst.ListTags(10)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "important" || tags[0].UsageCount != 1 {
		t.Errorf("restored tags differ: %+v", tags)
	}

	// Restoring twice must not duplicate anything.
	if err := dst.Restore(fs, path); err != nil {
		t.Fatalf("second restore: %v", err)
	}
	items, err := dst.ListItems(ItemFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("restore must be idempotent, got %d items", len(items))
	}
}

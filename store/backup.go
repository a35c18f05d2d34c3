package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/josephgoksu/flow/models"
	"github.com/spf13/afero"
)

// snapshot is the JSON shape written by Backup.
type snapshot struct {
	ExportedAt time.Time     `json:"exportedAt"`
	Items      []models.Item `json:"items"`
	Tags       []models.Tag  `json:"tags"`
}

// Backup writes a JSON snapshot of all items and the tag vocabulary to
// destinationPath on the given filesystem.
func (s *SQLiteStore) Backup(fs afero.Fs, destinationPath string) error {
	items, err := s.ListItems(ItemFilter{})
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	tags, err := s.ListTags(10000)
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	snap := snapshot{ExportedAt: time.Now().UTC(), Items: items, Tags: tags}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("backup: marshal snapshot: %w", err)
	}
	if err := afero.WriteFile(fs, destinationPath, data, 0o644); err != nil {
		return fmt.Errorf("backup: write %s: %w", destinationPath, err)
	}
	return nil
}

// Restore loads a snapshot written by Backup, inserting items and tags that
// are not already present. Existing rows are replaced by snapshot rows
// (last-writer-wins, same as any other put).
func (s *SQLiteStore) Restore(fs afero.Fs, sourcePath string) error {
	data, err := afero.ReadFile(fs, sourcePath)
	if err != nil {
		return fmt.Errorf("restore: read %s: %w", sourcePath, err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("restore: parse snapshot: %w", err)
	}
	for _, item := range snap.Items {
		if _, err := s.PutItem(item); err == nil {
			continue
		}
		if _, err := s.CreateItem(item); err != nil {
			return fmt.Errorf("restore item %s: %w", item.ID, err)
		}
	}
	for _, tag := range snap.Tags {
		aliasJSON, _ := json.Marshal(tag.Aliases)
		_, err := s.db.Exec(`
			INSERT INTO tags (name, aliases, usage_count, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET usage_count = excluded.usage_count
		`, tag.Name, string(aliasJSON), tag.UsageCount,
			tag.CreatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("restore tag %s: %w", tag.Name, err)
		}
	}
	return nil
}

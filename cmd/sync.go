/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	flowsync "github.com/josephgoksu/flow/sync"
	"github.com/spf13/cobra"
)

var syncFile string

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import externally captured reminders",
	Long: `Sync upserts reminders exported from another capture surface (a JSON
file with external ids) into the inbox. Re-running is safe: existing
items are updated in place, completed reminders are marked done, and
nothing is ever deleted.

The expected file format is a JSON array:
  [{"externalId": "x-1", "title": "buy stamps", "completed": false}]`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVarP(&syncFile, "file", "f", "", "path to the exported reminders JSON file")
	_ = syncCmd.MarkFlagRequired("file")
}

func runSync(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	res, err := flowsync.Import(cmd.Context(), eng, fileSource{path: syncFile})
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	cmd.Printf("%s Synced: %d new, %d updated, %d completed, %d unchanged\n",
		color.GreenString("✓"), res.Created, res.Updated, res.Completed, res.Skipped)
	return nil
}

// fileSource reads reminders from a JSON export on disk.
type fileSource struct {
	path string
}

func (f fileSource) List(ctx context.Context) ([]flowsync.Reminder, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read reminders file: %w", err)
	}
	var entries []struct {
		ExternalID string `json:"externalId"`
		Title      string `json:"title"`
		Completed  bool   `json:"completed"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse reminders file: %w", err)
	}
	reminders := make([]flowsync.Reminder, len(entries))
	for i, e := range entries {
		reminders[i] = flowsync.Reminder{ExternalID: e.ExternalID, Title: e.Title, Completed: e.Completed}
	}
	return reminders, nil
}

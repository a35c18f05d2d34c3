/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// backupCmd represents the backup command.
var backupCmd = &cobra.Command{
	Use:   "backup [path]",
	Short: "Export all items and tags to a JSON snapshot",
	Long: `Backup writes a portable JSON snapshot of every item and the tag
vocabulary. Without a path, a timestamped file is written to the
current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackup,
}

// restoreCmd represents the restore command.
var restoreCmd = &cobra.Command{
	Use:   "restore <path>",
	Short: "Load items and tags from a snapshot",
	Long: `Restore merges a snapshot into the database. Snapshot rows replace
existing rows with the same id; everything else is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	path := fmt.Sprintf("flow-backup-%s.json", time.Now().UTC().Format("20060102-150405"))
	if len(args) > 0 {
		path = args[0]
	}

	if err := s.Backup(afero.NewOsFs(), path); err != nil {
		return err
	}
	cmd.Printf("%s Backup written to %s\n", color.GreenString("✓"), path)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Restore(afero.NewOsFs(), args[0]); err != nil {
		return err
	}
	cmd.Printf("%s Restored from %s\n", color.GreenString("✓"), args[0])
	return nil
}

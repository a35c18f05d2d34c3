/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/josephgoksu/flow/engine"
	"github.com/spf13/cobra"
)

var (
	deferMode  string
	deferUntil string
	deferNote  string
)

// deferCmd represents the defer command.
var deferCmd = &cobra.Command{
	Use:   "defer <id>",
	Short: "Move a task out of the execution view",
	Long: `Defer hides a task from next actions in one of three ways:

  waiting  blocked on someone or something else
  someday  parked indefinitely, revisited during review
  until    hidden until a date, then automatically visible again

Examples:
  flow defer 3fa8 --mode waiting --note "sent to Alex"
  flow defer 3fa8 --mode until --until 2026-09-15T09:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runDefer,
}

func init() {
	rootCmd.AddCommand(deferCmd)
	deferCmd.Flags().StringVarP(&deferMode, "mode", "m", "someday", "defer mode: waiting, someday, or until")
	deferCmd.Flags().StringVarP(&deferUntil, "until", "u", "", "RFC3339 timestamp for --mode until")
	deferCmd.Flags().StringVarP(&deferNote, "note", "n", "", "what the task is waiting on")
}

func runDefer(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	id, err := resolveItemID(s, args[0])
	if err != nil {
		return err
	}

	var until *time.Time
	if deferUntil != "" {
		t, err := time.Parse(time.RFC3339, deferUntil)
		if err != nil {
			return fmt.Errorf("parse --until: %w (want RFC3339, e.g. 2026-09-15T09:00:00Z)", err)
		}
		until = &t
	}

	item, err := eng.Defer(id, engine.DeferMode(deferMode), until, deferNote)
	if err != nil {
		return err
	}

	cmd.Printf("%s Deferred (%s): %s\n", color.GreenString("✓"), deferMode, item.Title)
	return nil
}

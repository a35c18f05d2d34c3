/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// nextCmd represents the next command.
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show actionable next actions",
	Long: `Next lists every task you could act on right now: active items whose
defer-until date, if any, has passed. Waiting, someday, and finished
items are hidden.`,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	actions, err := eng.NextActions(time.Now().UTC())
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		cmd.Println("No next actions. Capture or process your inbox first.")
		return nil
	}

	cmd.Printf("%s (%d)\n", color.New(color.Bold).Sprint("Next actions"), len(actions))
	for _, item := range actions {
		printItemLine(cmd, item)
	}
	return nil
}

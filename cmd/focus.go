/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/josephgoksu/flow/focus"
	"github.com/spf13/cobra"
)

var focusMinutes int

// focusCmd represents the focus command.
var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Pick one task for the time you have",
	Long: `Focus picks a single task matched to your available window: small or
low-friction tasks for short gaps, deep work for long stretches,
highest priority otherwise.

Examples:
  flow focus --minutes 20
  flow focus -m 180`,
	RunE: runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.Flags().IntVarP(&focusMinutes, "minutes", "m", 60, "available time in minutes")
}

func runFocus(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	pool, err := eng.NextActions(time.Now().UTC())
	if err != nil {
		return err
	}

	item, ok := focus.SelectTask(focusMinutes, pool, GetConfig().Focus)
	if !ok {
		cmd.Println("No candidate for this window. Your inbox may need processing.")
		return nil
	}

	cmd.Printf("%s %s\n", color.New(color.Bold, color.FgGreen).Sprint("▶"), item.Title)
	if item.EstimatedDuration != nil {
		cmd.Printf("  estimated %d minutes\n", *item.EstimatedDuration)
	}
	cmd.Printf("  done? flow done %s\n", shortID(item.ID))
	return nil
}

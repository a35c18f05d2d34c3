/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/josephgoksu/flow/engine"
	"github.com/spf13/cobra"
)

var (
	captureTags  []string
	captureNoTag bool
)

// captureCmd represents the capture command.
var captureCmd = &cobra.Command{
	Use:   "capture <text>...",
	Short: "Capture a thought into the inbox",
	Long: `Capture appends one item to the inbox with no classification decision.
The text is stored verbatim; triage happens later with 'flow process'.

Examples:
  flow capture "book dentist appointment"
  flow capture --tag errands buy stamps`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().StringSliceVarP(&captureTags, "tag", "t", nil, "attach explicit tags (disables auto-tagging)")
	captureCmd.Flags().BoolVar(&captureNoTag, "no-auto-tag", false, "skip auto-tagging for this capture")
}

func runCapture(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	var tags []string
	for _, t := range captureTags {
		if n := engine.NormalizeTag(t); n != "" {
			tags = append(tags, n)
		}
	}

	item, err := eng.Capture(cmd.Context(), strings.Join(args, " "), engine.CaptureOptions{
		Tags:        tags,
		SkipAutoTag: captureNoTag,
	})
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	cmd.Printf("%s Captured: %s\n", color.GreenString("✓"), item.Title)
	if len(item.Tags) > 0 {
		cmd.Printf("  tags: %s\n", strings.Join(item.Tags, ", "))
	}
	logVerbose("item id %s", item.ID)
	return nil
}

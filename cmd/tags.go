/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/josephgoksu/flow/engine"
	"github.com/spf13/cobra"
)

// tagsCmd represents the tags command.
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show the tag vocabulary",
	RunE:  runTags,
}

var tagsMergeCmd = &cobra.Command{
	Use:   "merge <from> <to>",
	Short: "Fold one tag into another",
	Long: `Merge rewrites every item and resource carrying <from> to carry <to>,
sums the usage counters, and keeps <from> as an alias so future
suggestions converge on the surviving name.`,
	Args: cobra.ExactArgs(2),
	RunE: runTagsMerge,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.AddCommand(tagsMergeCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	tags, err := s.ListTags(100)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		cmd.Println("No tags yet. They accumulate as you capture and process.")
		return nil
	}

	for _, tag := range tags {
		line := "  " + color.CyanString("#"+tag.Name)
		if tag.UsageCount > 0 {
			line += color.New(color.Faint).Sprintf(" ×%d", tag.UsageCount)
		}
		if len(tag.Aliases) > 0 {
			line += color.New(color.Faint).Sprintf(" (also: %s)", strings.Join(tag.Aliases, ", "))
		}
		cmd.Println(line)
	}
	return nil
}

func runTagsMerge(cmd *cobra.Command, args []string) error {
	s, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	from := engine.NormalizeTag(args[0])
	to := engine.NormalizeTag(args[1])
	if err := s.MergeTags(from, to); err != nil {
		return err
	}
	cmd.Printf("%s Merged #%s into #%s\n", color.GreenString("✓"), from, to)
	return nil
}

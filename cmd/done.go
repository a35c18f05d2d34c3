/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// doneCmd represents the done command.
var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark tasks as completed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDone,
}

// archiveCmd represents the archive command.
var archiveCmd = &cobra.Command{
	Use:   "archive <id>...",
	Short: "Archive tasks without completing them",
	Long: `Archive retains a task outside of active work. Nothing is ever deleted;
archived items stay queryable and can be resurfaced later.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runArchive,
}

// resurfaceCmd represents the resurface command.
var resurfaceCmd = &cobra.Command{
	Use:   "resurface <id>...",
	Short: "Bring parked or archived tasks back to active",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResurface,
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(resurfaceCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	for _, ref := range args {
		id, err := resolveItemID(s, ref)
		if err != nil {
			return err
		}
		item, err := eng.Complete(id)
		if err != nil {
			return err
		}
		cmd.Printf("%s Done: %s\n", color.GreenString("✓"), item.Title)
	}
	return nil
}

func runArchive(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	for _, ref := range args {
		id, err := resolveItemID(s, ref)
		if err != nil {
			return err
		}
		item, err := eng.Archive(id)
		if err != nil {
			return err
		}
		cmd.Printf("%s Archived: %s\n", color.YellowString("✓"), item.Title)
	}
	return nil
}

func runResurface(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	for _, ref := range args {
		id, err := resolveItemID(s, ref)
		if err != nil {
			return err
		}
		item, err := eng.Resurface(id)
		if err != nil {
			return err
		}
		cmd.Printf("%s Active again: %s\n", color.GreenString("✓"), item.Title)
	}
	return nil
}

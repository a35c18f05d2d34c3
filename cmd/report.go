/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	reportDays int
	staleDays  int
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a weekly review summary",
	RunE:  runReport,
}

// reviewCmd represents the review command.
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Surface stale and parked items for a periodic review",
	Long: `Review lists items that have sat untouched past the staleness cutoff,
plus everything parked in someday. Archive what no longer matters and
resurface what does.`,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(reviewCmd)
	reportCmd.Flags().IntVarP(&reportDays, "days", "d", 7, "look-back window in days")
	reviewCmd.Flags().IntVar(&staleDays, "stale-days", 30, "age in days before an item counts as stale")
}

func runReport(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	report, err := eng.WeeklyReport(reportDays)
	if err != nil {
		return err
	}
	cmd.Print(report)
	return nil
}

func runReview(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	stale, err := eng.Stale(staleDays)
	if err != nil {
		return err
	}
	someday, err := eng.SomedaySuggestions()
	if err != nil {
		return err
	}

	if len(stale) == 0 && len(someday) == 0 {
		cmd.Println("Nothing needs review. Well kept.")
		return nil
	}

	if len(stale) > 0 {
		cmd.Printf("%s (older than %d days)\n", color.New(color.Bold).Sprint("Stale"), staleDays)
		for _, item := range stale {
			printItemLine(cmd, item)
		}
		cmd.Println("\nArchive with: flow archive <id>")
	}
	if len(someday) > 0 {
		cmd.Printf("\n%s\n", color.New(color.Bold).Sprint("Someday / maybe"))
		for _, item := range someday {
			printItemLine(cmd, item)
		}
		cmd.Println("\nBring one back with: flow resurface <id>")
	}
	return nil
}

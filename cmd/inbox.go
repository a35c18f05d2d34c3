/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/josephgoksu/flow/models"
	"github.com/spf13/cobra"
)

// inboxCmd represents the inbox command.
var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List unprocessed inbox items",
	RunE:  runInbox,
}

func init() {
	rootCmd.AddCommand(inboxCmd)
}

func runInbox(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	items, err := eng.ListInbox()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		cmd.Println("Inbox is empty. Capture something with: flow capture \"...\"")
		return nil
	}

	cmd.Printf("%s (%d)\n", color.New(color.Bold).Sprint("Inbox"), len(items))
	for _, item := range items {
		printItemLine(cmd, item)
	}
	cmd.Println("\nTriage with: flow process")
	return nil
}

func printItemLine(cmd *cobra.Command, item models.Item) {
	line := "  " + shortID(item.ID) + "  " + item.Title
	if len(item.Tags) > 0 {
		line += color.CyanString(" #" + strings.Join(item.Tags, " #"))
	}
	if item.EstimatedDuration != nil {
		line += color.YellowString(" ~%dm", *item.EstimatedDuration)
	}
	cmd.Println(line)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

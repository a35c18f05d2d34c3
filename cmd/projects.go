/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/josephgoksu/flow/models"
	"github.com/spf13/cobra"
)

// projectsCmd represents the projects command.
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects and their next actions",
	RunE:  runProjects,
}

var projectModeCmd = &cobra.Command{
	Use:   "mode <project-id> <sequential|parallel>",
	Short: "Switch how a project exposes its children",
	Long: `A sequential project shows only its first unfinished task; a parallel
project shows every actionable task at once.`,
	Args: cobra.ExactArgs(2),
	RunE: runProjectMode,
}

var projectAttachCmd = &cobra.Command{
	Use:   "attach <item-id> <project-id>",
	Short: "Move a task under a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectAttach,
}

var projectDetachCmd = &cobra.Command{
	Use:   "detach <item-id>",
	Short: "Move a task out of its project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDetach,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectModeCmd)
	projectsCmd.AddCommand(projectAttachCmd)
	projectsCmd.AddCommand(projectDetachCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	projects, err := eng.ListProjects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		cmd.Println("No projects. 'flow process' can group related inbox items into one.")
		return nil
	}

	now := time.Now().UTC()
	for _, project := range projects {
		cmd.Printf("%s %s %s\n", color.New(color.Bold).Sprint(project.Title),
			color.New(color.Faint).Sprintf("(%s)", project.Mode), shortID(project.ID))

		next, err := eng.NextActionsFor(project.ID, now)
		if err != nil {
			return err
		}
		if len(next) == 0 {
			cmd.Println("  (nothing actionable right now)")
			continue
		}
		for _, item := range next {
			printItemLine(cmd, item)
		}
	}
	return nil
}

func runProjectMode(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	id, err := resolveItemID(s, args[0])
	if err != nil {
		return err
	}
	project, err := eng.SetProjectMode(id, models.ProjectMode(args[1]))
	if err != nil {
		return err
	}
	cmd.Printf("%s %s is now %s\n", color.GreenString("✓"), project.Title, project.Mode)
	return nil
}

func runProjectAttach(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	itemID, err := resolveItemID(s, args[0])
	if err != nil {
		return err
	}
	projectID, err := resolveItemID(s, args[1])
	if err != nil {
		return err
	}
	item, err := eng.AttachToProject(itemID, projectID)
	if err != nil {
		return err
	}
	cmd.Printf("%s Attached: %s\n", color.GreenString("✓"), item.Title)
	return nil
}

func runProjectDetach(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	id, err := resolveItemID(s, args[0])
	if err != nil {
		return err
	}
	item, err := eng.DetachFromProject(id)
	if err != nil {
		return err
	}
	cmd.Printf("%s Detached: %s\n", color.GreenString("✓"), item.Title)
	return nil
}

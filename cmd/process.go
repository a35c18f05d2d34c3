/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/josephgoksu/flow/engine"
	"github.com/josephgoksu/flow/llm"
	"github.com/josephgoksu/flow/models"
	"github.com/spf13/cobra"
)

var processYes bool

// processCmd represents the process command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Triage the inbox through the funnel",
	Long: `Process walks the inbox through four stages: merge duplicates, group
related items into projects, knock out quick wins, and sharpen vague
titles. Every decision is saved immediately, so you can stop at any
point and pick up where you left off.

With --yes all suggestions are accepted without prompting.`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().BoolVarP(&processYes, "yes", "y", false, "accept all suggestions without prompting")
}

func runProcess(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	var decider engine.Decider
	if processYes {
		decider = engine.AcceptAll{}
	} else {
		decider = &promptDecider{
			in:  bufio.NewReader(cmd.InOrStdin()),
			out: cmd.OutOrStdout(),
		}
	}

	funnel := engine.NewFunnel(eng, GetConfig().Triage)
	sum, err := funnel.Run(cmd.Context(), decider)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	if sum.Examined == 0 {
		cmd.Println("Inbox is empty, nothing to process.")
		return nil
	}
	cmd.Printf("\n%s Processed %d items: %d merged, %d projects, %d done, %d deferred, %d clarified\n",
		color.GreenString("✓"), sum.Examined, sum.Merged, sum.ProjectsCreated,
		sum.Completed, sum.Deferred, sum.Clarified)
	return nil
}

// promptDecider asks the user on stdin for each funnel decision.
type promptDecider struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptDecider) ask(prompt string) string {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(line))
}

func (p *promptDecider) ResolveDuplicate(a, b models.Item, score float64) (bool, error) {
	fmt.Fprintf(p.out, "\n%s (%.0f%% similar)\n  1: %s\n  2: %s\n",
		color.New(color.Bold).Sprint("Possible duplicate"), score*100, a.Title, b.Title)
	return p.ask("Merge into one? [y/N] ") == "y", nil
}

func (p *promptDecider) AcceptCluster(name string, items []models.Item) (bool, error) {
	fmt.Fprintf(p.out, "\n%s %q\n", color.New(color.Bold).Sprint("Suggested project"), name)
	for _, it := range items {
		fmt.Fprintf(p.out, "  - %s\n", it.Title)
	}
	return p.ask("Create this project? [y/N] ") == "y", nil
}

func (p *promptDecider) ResolveQuickWin(item models.Item) (engine.QuickWinOutcome, error) {
	fmt.Fprintf(p.out, "\n%s %s\n", color.New(color.Bold).Sprint("Quick win:"), item.Title)
	switch p.ask("Do it now, defer, or skip? [d=done/w=waiting/s=someday/u=until/Enter=skip] ") {
	case "d":
		return engine.QuickWinOutcome{Action: engine.QuickWinDoNow}, nil
	case "w":
		note := p.ask("Waiting on? (optional) ")
		return engine.QuickWinOutcome{Action: engine.QuickWinDefer, DeferMode: engine.DeferWaiting, DeferNote: note}, nil
	case "s":
		return engine.QuickWinOutcome{Action: engine.QuickWinDefer, DeferMode: engine.DeferSomeday}, nil
	case "u":
		raw := p.ask("Until when? (RFC3339, e.g. 2026-09-15T09:00:00Z) ")
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fmt.Fprintln(p.out, "Unrecognized timestamp, skipping.")
			return engine.QuickWinOutcome{Action: engine.QuickWinSkip}, nil
		}
		return engine.QuickWinOutcome{Action: engine.QuickWinDefer, DeferMode: engine.DeferUntil, DeferUntil: &t}, nil
	default:
		return engine.QuickWinOutcome{Action: engine.QuickWinSkip}, nil
	}
}

func (p *promptDecider) ResolveClarify(item models.Item, suggestion llm.CoachSuggestion) (engine.ClarifyOutcome, error) {
	fmt.Fprintf(p.out, "\n%s\n  now:       %s\n  suggested: %s\n",
		color.New(color.Bold).Sprint("Vague title"), item.Title,
		color.CyanString(suggestion.SuggestedTitle))
	switch p.ask("Accept, edit, or keep as is? [a/e/Enter=keep] ") {
	case "a":
		return engine.ClarifyOutcome{Action: engine.ClarifyAccept}, nil
	case "e":
		fmt.Fprint(p.out, "New title: ")
		line, err := p.in.ReadString('\n')
		if err != nil {
			return engine.ClarifyOutcome{Action: engine.ClarifySkip}, nil
		}
		return engine.ClarifyOutcome{Action: engine.ClarifyEdit, Title: strings.TrimSpace(line)}, nil
	default:
		return engine.ClarifyOutcome{Action: engine.ClarifySkip}, nil
	}
}

/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/josephgoksu/flow/engine"
	"github.com/josephgoksu/flow/models"
	"github.com/spf13/cobra"
)

var (
	resourceTags    []string
	resourceTitle   string
	resourceType    string
	resourceTopK    int
	resourceItemRef string
)

// resourceCmd represents the resource command.
var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Save and retrieve reference material",
}

var resourceAddCmd = &cobra.Command{
	Use:   "add <source>",
	Short: "Save a URL, file path, or note as reference material",
	Long: `Resources are reference material, not actions: they never appear in the
inbox or next-action views. They surface later when their tags overlap
a task, or through semantic search when an API key is configured.

Examples:
  flow resource add https://example.com/design-doc --tag api-design
  flow resource add "team offsite notes" --type text --tag planning`,
	Args: cobra.ExactArgs(1),
	RunE: runResourceAdd,
}

var resourceFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Find resources related to a task or free-text query",
	Long: `With --item, ranks saved resources by tag overlap with that task.
With a free-text query and an API key configured, also searches the
semantic index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResourceFind,
}

func init() {
	rootCmd.AddCommand(resourceCmd)
	resourceCmd.AddCommand(resourceAddCmd)
	resourceCmd.AddCommand(resourceFindCmd)

	resourceAddCmd.Flags().StringSliceVarP(&resourceTags, "tag", "t", nil, "tags for later retrieval")
	resourceAddCmd.Flags().StringVar(&resourceTitle, "title", "", "display title")
	resourceAddCmd.Flags().StringVar(&resourceType, "type", "url", "content type: url, file, or text")

	resourceFindCmd.Flags().StringVarP(&resourceItemRef, "item", "i", "", "rank by tag overlap with this task id")
	resourceFindCmd.Flags().IntVarP(&resourceTopK, "top", "k", 5, "maximum results")
}

func runResourceAdd(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	var tags []string
	for _, t := range resourceTags {
		if n := engine.NormalizeTag(t); n != "" {
			tags = append(tags, n)
		}
	}
	if len(tags) == 0 {
		// No explicit tags: let the oracle suggest some from the content.
		tags = eng.ExtractTags(cmd.Context(), resourceTitle+" "+args[0])
	}

	res := models.Resource{
		ID:          uuid.New().String(),
		ContentType: models.ContentType(resourceType),
		Source:      args[0],
		Title:       resourceTitle,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.CreateResource(res)
	if err != nil {
		return fmt.Errorf("save resource: %w", err)
	}
	for _, tag := range tags {
		if err := s.IncrementTagUsage(tag); err != nil {
			return err
		}
	}

	if vs := eng.VectorStore(); vs != nil {
		text := strings.TrimSpace(created.Title + " " + created.Source)
		if err := vs.Upsert(cmd.Context(), created.ID, created.Title, created.Source, text); err != nil {
			logVerbose("semantic index skipped: %v", err)
		}
	}

	cmd.Printf("%s Saved resource", color.GreenString("✓"))
	if len(tags) > 0 {
		cmd.Printf(" #%s", strings.Join(tags, " #"))
	}
	cmd.Println()
	return nil
}

func runResourceFind(cmd *cobra.Command, args []string) error {
	eng, s, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	var resources []models.Resource
	if resourceItemRef != "" {
		id, err := resolveItemID(s, resourceItemRef)
		if err != nil {
			return err
		}
		resources, err = eng.ResourcesForItem(id, resourceTopK)
		if err != nil {
			return err
		}
	}

	printed := map[string]bool{}
	for _, res := range resources {
		printed[res.ID] = true
		printResourceLine(cmd, res.Title, res.Source, "#"+strings.Join(res.Tags, " #"))
	}

	if len(args) > 0 {
		for _, hit := range eng.SemanticResources(cmd.Context(), args[0], resourceTopK) {
			if printed[hit.ResourceID] {
				continue
			}
			printResourceLine(cmd, hit.Title, hit.Source, fmt.Sprintf("%.2f", hit.Score))
		}
	}

	if len(printed) == 0 && len(args) == 0 {
		cmd.Println("Nothing found. Pass --item <id> or a free-text query.")
	}
	return nil
}

func printResourceLine(cmd *cobra.Command, title, source, annotation string) {
	if title == "" {
		title = source
	}
	cmd.Printf("  %s %s %s\n", title, color.New(color.Faint).Sprint(source), color.CyanString(annotation))
}

/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Write a commented .flow.yaml into the current directory with the default
thresholds filled in, and create the data directory.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configName + ".yaml"
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	config := GetConfig()
	starter := map[string]interface{}{
		"data": map[string]interface{}{
			"dir":  config.Data.Dir,
			"file": config.Data.File,
		},
		"llm": map[string]interface{}{
			"provider":  config.LLM.Provider,
			"modelName": config.LLM.ModelName,
			"apiKey":    "",
		},
		"triage": map[string]interface{}{
			"quickWinMinutes": config.Triage.QuickWinMinutes,
			"dedupThreshold":  config.Triage.DedupThreshold,
			"batchLimit":      config.Triage.BatchLimit,
		},
		"focus": map[string]interface{}{
			"shortWindowMinutes": config.Focus.ShortWindowMinutes,
			"longWindowMinutes":  config.Focus.LongWindowMinutes,
			"shortTaskMinutes":   config.Focus.ShortTaskMinutes,
			"lowFrictionTag":     config.Focus.LowFrictionTag,
		},
		"tagging": map[string]interface{}{
			"autoTag": config.Tagging.AutoTag,
			"maxTags": config.Tagging.MaxTags,
		},
	}

	out, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.MkdirAll(config.Data.Dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	cmd.Printf("%s Wrote %s\n", color.GreenString("✓"), path)
	cmd.Printf("%s Data directory: %s\n", color.GreenString("✓"), config.Data.Dir)
	cmd.Println("\nSet llm.apiKey (or FLOW_LLM_APIKEY) to enable triage suggestions.")
	return nil
}

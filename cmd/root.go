/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/josephgoksu/flow/engine"
	"github.com/josephgoksu/flow/llm"
	"github.com/josephgoksu/flow/store"
	"github.com/josephgoksu/flow/vector"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "flow",
	Short: "Flow keeps your tasks moving: capture, triage, do.",
	Long: `Flow is a GTD-style command line companion. Capture thoughts the moment
they occur, run them through a short triage funnel, and ask for the one
task that fits the time you have right now.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.flow.yaml or ./.flow.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// DatabasePath returns the full path to the SQLite database file.
func DatabasePath() string {
	config := GetConfig()
	return filepath.Join(config.Data.Dir, config.Data.File)
}

// GetStore opens the application database.
func GetStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", DatabasePath(), err)
	}
	return s, nil
}

// GetEngine opens the store and wires the engine with the configured oracle
// and, when an API key is present, the semantic resource index.
func GetEngine() (*engine.Engine, *store.SQLiteStore, error) {
	s, err := GetStore()
	if err != nil {
		return nil, nil, err
	}

	config := GetConfig()
	oracle, err := llm.NewOracle(config.LLM)
	if err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("configure oracle: %w", err)
	}

	opts := []engine.Option{}
	if config.LLM.APIKey != "" {
		embedder := vector.NewOpenAIEmbedder(config.LLM.APIKey, "", "",
			time.Duration(config.LLM.RequestTimeoutSeconds)*time.Second)
		if vs, err := vector.NewSQLiteStore(s.DB(), embedder); err == nil {
			opts = append(opts, engine.WithVectorStore(vs))
		} else if verbose {
			fmt.Fprintln(os.Stderr, "semantic index unavailable:", err)
		}
	}

	return engine.New(s, oracle, config.Tagging, opts...), s, nil
}

func logVerbose(format string, args ...interface{}) {
	if verbose || viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

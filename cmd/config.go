/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".flow"
	envPrefix  = "FLOW"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. Missing is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. FLOW_VERBOSE, FLOW_LLM_APIKEY
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(".")  // ./.flow.yaml
		viper.AddConfigPath(home) // $HOME/.flow.yaml
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	setDefaults()

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	if err := models.ValidateStruct(GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

func setDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetDefault("data.dir", filepath.Join(home, ".flow"))
	viper.SetDefault("data.file", "flow.db")

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.modelName", "gpt-4o-mini")
	viper.SetDefault("llm.apiKey", "")
	viper.SetDefault("llm.baseUrl", "")
	viper.SetDefault("llm.requestTimeoutSeconds", 60)
	viper.SetDefault("llm.debug", false)

	viper.SetDefault("triage.quickWinMinutes", 5)
	viper.SetDefault("triage.dedupThreshold", 0.75)
	viper.SetDefault("triage.batchLimit", 25)

	viper.SetDefault("focus.shortWindowMinutes", 30)
	viper.SetDefault("focus.longWindowMinutes", 120)
	viper.SetDefault("focus.shortTaskMinutes", 15)
	viper.SetDefault("focus.lowFrictionTag", "admin")

	viper.SetDefault("tagging.autoTag", true)
	viper.SetDefault("tagging.maxTags", 5)
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

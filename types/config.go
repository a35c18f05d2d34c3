/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"omitempty"`
	Triage  TriageConfig  `mapstructure:"triage" validate:"required"`
	Focus   FocusConfig   `mapstructure:"focus" validate:"required"`
	Tagging TaggingConfig `mapstructure:"tagging"`
}

// DataConfig holds local-first storage locations
type DataConfig struct {
	Dir  string `mapstructure:"dir" validate:"required"`
	File string `mapstructure:"file" validate:"required"`
}

// LLMConfig holds configuration for the oracle provider
type LLMConfig struct {
	Provider  string `mapstructure:"provider" validate:"omitempty,oneof=openai"`
	ModelName string `mapstructure:"modelName" validate:"omitempty,min=1"`
	APIKey    string `mapstructure:"apiKey" validate:"omitempty,min=1"`
	BaseURL   string `mapstructure:"baseUrl"`
	// RequestTimeoutSeconds controls the HTTP client timeout for oracle calls
	RequestTimeoutSeconds int  `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=5,max=600"`
	Debug                 bool `mapstructure:"debug"`
}

// TriageConfig holds the funnel's externally supplied thresholds.
type TriageConfig struct {
	// QuickWinMinutes is the 2-minute-rule effort cutoff; items estimated
	// below it are offered do-now/defer.
	QuickWinMinutes int `mapstructure:"quickWinMinutes" validate:"required,min=1"`
	// DedupThreshold is the similarity score above which a pair is
	// presented for a merge decision.
	DedupThreshold float64 `mapstructure:"dedupThreshold" validate:"required,gt=0,lte=1"`
	// BatchLimit caps how many inbox items one funnel run examines.
	BatchLimit int `mapstructure:"batchLimit" validate:"omitempty,min=1"`
}

// FocusConfig holds the dispatcher's time-window thresholds.
type FocusConfig struct {
	ShortWindowMinutes int    `mapstructure:"shortWindowMinutes" validate:"required,min=1"`
	LongWindowMinutes  int    `mapstructure:"longWindowMinutes" validate:"required,min=1"`
	ShortTaskMinutes   int    `mapstructure:"shortTaskMinutes" validate:"required,min=1"`
	LowFrictionTag     string `mapstructure:"lowFrictionTag" validate:"required"`
}

// TaggingConfig controls capture-time auto tagging.
type TaggingConfig struct {
	AutoTag bool `mapstructure:"autoTag"`
	MaxTags int  `mapstructure:"maxTags" validate:"omitempty,min=1,max=10"`
}

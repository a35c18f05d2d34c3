package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/josephgoksu/flow/types"
)

// NewOracle builds the configured oracle provider. With no API key it
// returns a disabled oracle whose every call fails with OracleError, which
// callers already degrade on; triage then runs in pass-through mode.
func NewOracle(cfg types.LLMConfig) (Oracle, error) {
	if cfg.APIKey == "" {
		return Disabled(), nil
	}
	switch cfg.Provider {
	case "", "openai":
		timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
		return NewOpenAIOracle(cfg.APIKey, cfg.ModelName, cfg.BaseURL, timeout, cfg.Debug), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// Disabled returns an oracle whose every capability reports unavailable.
func Disabled() Oracle {
	return disabledOracle{}
}

type disabledOracle struct{}

func (disabledOracle) err(capability string) error {
	return &types.OracleError{Capability: capability, Err: fmt.Errorf("oracle disabled (no API key configured)")}
}

func (d disabledOracle) Similarity(context.Context, string, string) (float64, error) {
	return 0, d.err("similarity")
}

func (d disabledOracle) Cluster(context.Context, []ClusterItem) ([]ClusterSuggestion, error) {
	return nil, d.err("cluster")
}

func (d disabledOracle) Coach(context.Context, string) (CoachSuggestion, error) {
	return CoachSuggestion{}, d.err("coach")
}

func (d disabledOracle) ExtractTags(context.Context, string, []string) ([]string, error) {
	return nil, d.err("tagging")
}

func (d disabledOracle) EstimateDuration(context.Context, string) (int, error) {
	return 0, d.err("duration")
}

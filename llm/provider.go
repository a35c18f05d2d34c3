package llm

import "context"

// ClusterItem is one (id, text) pair handed to the clustering capability.
type ClusterItem struct {
	ID    string
	Title string
}

// ClusterSuggestion is one proposed project grouping.
type ClusterSuggestion struct {
	Name    string
	ItemIDs []string
}

// CoachSuggestion is the clarification capability's output for a vague title.
type CoachSuggestion struct {
	SuggestedTitle           string
	EstimatedDurationMinutes int
}

// Oracle defines the external black-box capabilities the triage engine
// consumes. Every method may fail; callers degrade to a safe default per
// component instead of halting.
type Oracle interface {
	// Similarity scores two titles in [0,1].
	Similarity(ctx context.Context, a, b string) (float64, error)

	// Cluster groups items into candidate projects. An empty result means
	// no grouping was found.
	Cluster(ctx context.Context, items []ClusterItem) ([]ClusterSuggestion, error)

	// Coach rewrites a vague title into a concrete, verb-first next action
	// and estimates its duration.
	Coach(ctx context.Context, title string) (CoachSuggestion, error)

	// ExtractTags returns zero or more vocabulary tags for the text,
	// preferring names from vocab for consistency.
	ExtractTags(ctx context.Context, text string, vocab []string) ([]string, error)

	// EstimateDuration estimates effort for a title, in minutes.
	EstimateDuration(ctx context.Context, title string) (int, error)
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/josephgoksu/flow/types"
)

const defaultChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// Prompt templates for the oracle capabilities.
const (
	coachSystem = `You are a GTD coach. Given a vague task title, suggest one concrete next action (verb-first, specific) and estimate its duration in minutes (one of 5, 15, 30, 60, 120).
Return JSON: {"suggested_title": "...", "estimated_duration_minutes": N}`

	similaritySystem = `Rate how likely these two tasks describe the same piece of work.
Return JSON: {"similarity": X} where X is a number between 0 and 1.`

	clusterSystem = `Given a numbered list of task titles, suggest 1-3 project names that group related tasks. Use only the indices given. If no grouping makes sense, return an empty list.
Return JSON: {"clusters": [{"name": "ProjectName", "indices": [0, 2, 5]}]}`

	taggingSystem = `Extract 2-5 relevant tags for this content.
Rules:
- Use lowercase, hyphenated tags (e.g. "code-review", "api-design")
- Prefer existing tags when semantically similar
- Do not include generic tags like "task", "todo", "work"
Return JSON: {"tags": ["tag1", "tag2"]}`

	durationSystem = `Estimate how long this task takes in minutes. Pick one of: 5, 15, 30, 60, 120.
Return JSON: {"estimated_duration_minutes": N}`
)

// OpenAIOracle implements Oracle against an OpenAI-compatible chat
// completions endpoint with JSON-object responses.
type OpenAIOracle struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	debug   bool
}

// NewOpenAIOracle creates an oracle client. baseURL may be empty for the
// default endpoint; timeout <= 0 falls back to 60s.
func NewOpenAIOracle(apiKey, model, baseURL string, timeout time.Duration, debug bool) *OpenAIOracle {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if baseURL == "" {
		baseURL = defaultChatCompletionsURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIOracle{apiKey: apiKey, model: model, baseURL: baseURL, timeout: timeout, debug: debug}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// completeJSON sends a system+user prompt pair and unmarshals the JSON
// object the model returns into out.
func (o *OpenAIOracle) completeJSON(ctx context.Context, capability, system, user string, out interface{}) error {
	if o.apiKey == "" {
		return &types.OracleError{Capability: capability, Err: fmt.Errorf("API key is not set")}
	}

	payload := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return &types.OracleError{Capability: capability, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: o.timeout}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return &types.OracleError{Capability: capability, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	if o.debug {
		fmt.Printf("[LLM] %s %s in %v (status %s, bytes %d)\n", capability, o.model, time.Since(start), resp.Status, len(raw))
	}
	if resp.StatusCode != http.StatusOK {
		return &types.OracleError{
			Capability: capability,
			Err:        fmt.Errorf("API error (%s): %s", resp.Status, strings.TrimSpace(string(raw))),
		}
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil || len(cr.Choices) == 0 {
		return &types.OracleError{Capability: capability, Err: fmt.Errorf("unrecognized response body: %s", string(raw))}
	}
	content := cr.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(extractJSONObject(content)), out); err != nil {
		return &types.OracleError{Capability: capability, Err: fmt.Errorf("parse JSON from response: %w", err)}
	}
	return nil
}

// extractJSONObject tolerates models that wrap the JSON object in prose or
// code fences; it returns the substring between the first '{' and last '}'.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// Similarity scores two titles in [0,1].
func (o *OpenAIOracle) Similarity(ctx context.Context, a, b string) (float64, error) {
	var out struct {
		Similarity float64 `json:"similarity"`
	}
	user := fmt.Sprintf("A: %s\nB: %s", a, b)
	if err := o.completeJSON(ctx, "similarity", similaritySystem, user, &out); err != nil {
		return 0, err
	}
	if out.Similarity < 0 {
		out.Similarity = 0
	}
	if out.Similarity > 1 {
		out.Similarity = 1
	}
	return out.Similarity, nil
}

// Cluster groups items into candidate projects.
func (o *OpenAIOracle) Cluster(ctx context.Context, items []ClusterItem) ([]ClusterSuggestion, error) {
	if len(items) == 0 {
		return nil, nil
	}
	var sb strings.Builder
	for i, it := range items {
		fmt.Fprintf(&sb, "%d: %s\n", i, it.Title)
	}
	var out struct {
		Clusters []struct {
			Name    string `json:"name"`
			Indices []int  `json:"indices"`
		} `json:"clusters"`
	}
	if err := o.completeJSON(ctx, "cluster", clusterSystem, sb.String(), &out); err != nil {
		return nil, err
	}
	var suggestions []ClusterSuggestion
	for _, c := range out.Clusters {
		if c.Name == "" {
			continue
		}
		var ids []string
		for _, idx := range c.Indices {
			if idx >= 0 && idx < len(items) {
				ids = append(ids, items[idx].ID)
			}
		}
		if len(ids) > 0 {
			suggestions = append(suggestions, ClusterSuggestion{Name: c.Name, ItemIDs: ids})
		}
	}
	return suggestions, nil
}

// Coach rewrites a vague title into a verb-first next action.
func (o *OpenAIOracle) Coach(ctx context.Context, title string) (CoachSuggestion, error) {
	var out struct {
		SuggestedTitle           string `json:"suggested_title"`
		EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
	}
	user := "Task: " + strings.TrimSpace(title)
	if err := o.completeJSON(ctx, "coach", coachSystem, user, &out); err != nil {
		return CoachSuggestion{}, err
	}
	if strings.TrimSpace(out.SuggestedTitle) == "" {
		return CoachSuggestion{}, &types.OracleError{Capability: "coach", Err: fmt.Errorf("empty suggestion")}
	}
	return CoachSuggestion{
		SuggestedTitle:           strings.TrimSpace(out.SuggestedTitle),
		EstimatedDurationMinutes: out.EstimatedDurationMinutes,
	}, nil
}

// ExtractTags returns normalized vocabulary tags for the text.
func (o *OpenAIOracle) ExtractTags(ctx context.Context, text string, vocab []string) ([]string, error) {
	const maxContentLength = 500
	preview := text
	if len(preview) > maxContentLength {
		preview = preview[:maxContentLength] + "..."
	}
	existing := "(none yet)"
	if len(vocab) > 0 {
		limit := len(vocab)
		if limit > 30 {
			limit = 30
		}
		existing = strings.Join(vocab[:limit], ", ")
	}
	user := fmt.Sprintf("Existing tags: %s\nContent: %s", existing, preview)

	var out struct {
		Tags []string `json:"tags"`
	}
	if err := o.completeJSON(ctx, "tagging", taggingSystem, user, &out); err != nil {
		return nil, err
	}
	var tags []string
	for _, t := range out.Tags {
		if n := NormalizeTag(t); n != "" {
			tags = append(tags, n)
		}
		if len(tags) == 5 {
			break
		}
	}
	return tags, nil
}

// EstimateDuration estimates effort for a title, in minutes.
func (o *OpenAIOracle) EstimateDuration(ctx context.Context, title string) (int, error) {
	var out struct {
		EstimatedDurationMinutes int `json:"estimated_duration_minutes"`
	}
	user := "Task: " + strings.TrimSpace(title)
	if err := o.completeJSON(ctx, "duration", durationSystem, user, &out); err != nil {
		return 0, err
	}
	if out.EstimatedDurationMinutes <= 0 {
		return 0, &types.OracleError{Capability: "duration", Err: fmt.Errorf("non-positive estimate")}
	}
	return out.EstimatedDurationMinutes, nil
}

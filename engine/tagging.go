package engine

import (
	"context"

	"github.com/josephgoksu/flow/llm"
	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/vector"
)

// ExtractTags asks the tagging oracle for vocabulary tags matching the text.
// Best-effort: oracle failures yield the empty set, never an error.
func (e *Engine) ExtractTags(ctx context.Context, text string) []string {
	vocab, err := e.store.TagNames()
	if err != nil {
		vocab = nil
	}
	tags, err := e.oracle.ExtractTags(ctx, text, vocab)
	if err != nil {
		return nil
	}
	max := e.tagging.MaxTags
	if max > 0 && len(tags) > max {
		tags = tags[:max]
	}
	return tags
}

// AutoTag extracts tags for an item's title and attaches any that are new,
// recording usage for each newly attached tag before returning. The
// increment happens synchronously so counters are durable when a short-lived
// process exits right after.
func (e *Engine) AutoTag(ctx context.Context, itemID string) (models.Item, error) {
	item, err := e.store.GetItem(itemID)
	if err != nil {
		return models.Item{}, err
	}

	tags := e.ExtractTags(ctx, item.Title)
	if len(tags) == 0 {
		return item, nil
	}

	var attached []string
	for _, tag := range tags {
		if !item.HasTag(tag) {
			item.Tags = append(item.Tags, tag)
			attached = append(attached, tag)
		}
	}
	if len(attached) == 0 {
		return item, nil
	}

	updated, err := e.store.PutItem(item)
	if err != nil {
		return models.Item{}, err
	}
	// Exactly one usage increment per newly attached tag keeps the
	// vocabulary consistent with item tags.
	for _, tag := range attached {
		if err := e.store.IncrementTagUsage(tag); err != nil {
			return models.Item{}, err
		}
	}
	return updated, nil
}

// RelatedResources returns saved resources sharing tags with the given set,
// ranked by number of matching tags. Empty input or lookup failure yields an
// empty slice.
func (e *Engine) RelatedResources(tags []string, topK int) []models.Resource {
	if len(tags) == 0 {
		return nil
	}
	resources, err := e.store.FindResourcesByTags(tags, topK)
	if err != nil {
		return nil
	}
	return resources
}

// ResourcesForItem returns resources matching an item's tags.
func (e *Engine) ResourcesForItem(itemID string, topK int) ([]models.Resource, error) {
	item, err := e.store.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	return e.RelatedResources(item.Tags, topK), nil
}

// SemanticResources queries the vector store for resources related to the
// text. Returns nil when no vector store is configured or retrieval fails.
func (e *Engine) SemanticResources(ctx context.Context, text string, topK int) []vector.Hit {
	if e.vectors == nil {
		return nil
	}
	hits, err := e.vectors.Query(ctx, text, topK)
	if err != nil {
		return nil
	}
	return hits
}

// NormalizeTag re-exports the vocabulary normalization used across capture
// surfaces.
func NormalizeTag(tag string) string {
	return llm.NormalizeTag(tag)
}

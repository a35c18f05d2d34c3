package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/flow/models"
)

func TestAutoTagIncrementsUsageOncePerNewTag(t *testing.T) {
	eng, s := newTestEngine(t, &fakeOracle{
		tags: func(text string, vocab []string) ([]string, error) {
			return []string{"errands", "post"}, nil
		},
	})
	item := captureOne(t, eng, "buy stamps")

	// Pre-attach one of the suggested tags: only the genuinely new one
	// should bump its counter.
	stored, _ := s.GetItem(item.ID)
	stored.Tags = []string{"errands"}
	if _, err := s.PutItem(stored); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.IncrementTagUsage("errands"); err != nil {
		t.Fatalf("increment: %v", err)
	}

	tagged, err := eng.AutoTag(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("autotag: %v", err)
	}
	if !tagged.HasTag("errands") || !tagged.HasTag("post") {
		t.Errorf("tags not attached: %v", tagged.Tags)
	}

	tags, err := s.ListTags(10)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	counts := map[string]int{}
	for _, tag := range tags {
		counts[tag.Name] = tag.UsageCount
	}
	if counts["errands"] != 1 {
		t.Errorf("already-attached tag must not be re-counted, got %d", counts["errands"])
	}
	if counts["post"] != 1 {
		t.Errorf("new tag must be counted exactly once, got %d", counts["post"])
	}
}

func TestExtractTagsFailsOpen(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	if tags := eng.ExtractTags(context.Background(), "anything"); tags != nil {
		t.Errorf("oracle-less extraction must yield no tags, got %v", tags)
	}
}

func TestExtractTagsCapsAtMaxTags(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeOracle{
		tags: func(string, []string) ([]string, error) {
			return []string{"a", "b", "c", "d", "e", "f", "g"}, nil
		},
	})
	eng.tagging.MaxTags = 3

	if tags := eng.ExtractTags(context.Background(), "anything"); len(tags) != 3 {
		t.Errorf("expected 3 tags, got %d", len(tags))
	}
}

func TestResourcesForItem(t *testing.T) {
	eng, s := newTestEngine(t, nil)
	item := captureOne(t, eng, "review the api design doc")

	stored, _ := s.GetItem(item.ID)
	stored.Tags = []string{"api-design"}
	if _, err := s.PutItem(stored); err != nil {
		t.Fatalf("put: %v", err)
	}

	res := models.Resource{
		ID:          uuid.New().String(),
		ContentType: models.ContentURL,
		Source:      "https://example.com/api-guide",
		Tags:        []string{"api-design", "reference"},
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.CreateResource(res); err != nil {
		t.Fatalf("create resource: %v", err)
	}

	found, err := eng.ResourcesForItem(item.ID, 5)
	if err != nil {
		t.Fatalf("resources for item: %v", err)
	}
	if len(found) != 1 || found[0].ID != res.ID {
		t.Errorf("expected the tagged resource, got %d results", len(found))
	}
}

func TestSemanticResourcesWithoutIndex(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	if hits := eng.SemanticResources(context.Background(), "anything", 5); hits != nil {
		t.Errorf("no vector store configured, expected nil, got %v", hits)
	}
}

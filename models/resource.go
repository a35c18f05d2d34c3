package models

import "time"

// ContentType classifies a saved resource.
type ContentType string

const (
	ContentURL  ContentType = "url"
	ContentFile ContentType = "file"
	ContentText ContentType = "text"
)

// Resource is a saved reference (link, file, note) matched to tasks by tags.
type Resource struct {
	ID          string      `json:"id" validate:"required,uuid4"`
	ContentType ContentType `json:"contentType" validate:"required,oneof=url file text"`
	Source      string      `json:"source" validate:"required"`
	Title       string      `json:"title,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Tags        []string    `json:"tags"`
	CreatedAt   time.Time   `json:"createdAt" validate:"required"`
}

// Tag is one entry in the shared tag vocabulary. UsageCount tracks how many
// times the tag has been attached; it must stay consistent with item and
// resource tags.
type Tag struct {
	Name       string    `json:"name" validate:"required"`
	Aliases    []string  `json:"aliases,omitempty"`
	UsageCount int       `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

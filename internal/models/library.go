package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LibraryEntry is the durable record of one analysis run. The worker's
// completion callback populates ResultJSON when the run succeeds.
type LibraryEntry struct {
	ID           uuid.UUID       `json:"id"`
	SourceType   string          `json:"source_type"` // "youtube" | "file"
	SourceURL    *string         `json:"source_url"`
	Title        string          `json:"title"`
	ThumbnailURL *string         `json:"thumbnail_url"`
	Status       string          `json:"status"` // "pending" | "processing" | "complete" | "error"
	ModelID      string          `json:"model_id"`
	MetadataJSON json.RawMessage `json:"metadata"`
	ResultJSON   json.RawMessage `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

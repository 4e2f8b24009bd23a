package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"` // "storyboard-analysis"
	ReferenceID  uuid.UUID       `json:"reference_id"`
	ConfigJSON   json.RawMessage `json:"config"`
	Status       string          `json:"status"` // "pending" | "processing" | "complete" | "error"
	ErrorMessage *string         `json:"error_message"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

// AnalysisConfig is the per-run configuration carried in Job.ConfigJSON.
type AnalysisConfig struct {
	Style           string        `json:"style"`
	VariationPrompt string        `json:"variation_prompt"`
	SummaryDuration int           `json:"summary_duration"`
	VideoMetadata   VideoMetadata `json:"video_metadata"`
}

// WebSocket message types

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StepUpdate mirrors one analysis state snapshot. Observers must tolerate
// repeated updates for the same step index while a chunk retries.
type StepUpdate struct {
	JobID       uuid.UUID  `json:"job_id"`
	CurrentStep int        `json:"current_step"`
	Steps       []StepInfo `json:"steps"`
}

type StepInfo struct {
	Title  string `json:"title"`
	Status string `json:"status"` // "pending" | "processing" | "complete" | "error"
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

type CompletedEvent struct {
	JobID    uuid.UUID `json:"job_id"`
	ResultID uuid.UUID `json:"result_id"`
}

type ErrorEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}

// QuotaEvent asks an operator for a replacement credential; the run stays
// suspended until one is supplied or declined.
type QuotaEvent struct {
	JobID     uuid.UUID `json:"job_id"`
	KeysTried int       `json:"keys_tried"`
}

// API error response

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

package models

// VideoMetadata describes the source a storyboard analysis runs against.
// It is fetched once by the metadata collaborator and passed by value into
// the analyzer; lookup failures produce a degraded placeholder, never an error.
type VideoMetadata struct {
	VideoID           string  `json:"video_id"`
	Title             string  `json:"title"`
	Author            string  `json:"author"`
	ThumbnailURL      string  `json:"thumbnail_url"`
	DurationSeconds   int     `json:"duration_seconds"`
	FormattedDuration string  `json:"formatted_duration"`
	HasCaptions       bool    `json:"has_captions"`
	LocalFilePath     *string `json:"local_file_path,omitempty"`
}

type SubmitYouTubeRequest struct {
	URL             string `json:"url"`
	Style           string `json:"style"`
	VariationPrompt string `json:"variation_prompt"`
	SummaryDuration int    `json:"summary_duration"`
}

package models

// StoryOutline is the coarse, story-level division of the full duration
// into a small number of narrative parts (6-8, contiguous, starting at 0).
type StoryOutline struct {
	Title   string        `json:"title"`
	Logline string        `json:"logline"`
	Parts   []OutlinePart `json:"parts"`
}

type OutlinePart struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Start   string `json:"start"` // "mm:ss"
	End     string `json:"end"`
}

// Scene is a fine-grained, several-second unit with detailed visual/audio
// tags. IDs are 1-based and dense, reassigned after the chunk merge.
type Scene struct {
	ID         int    `json:"id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Summary    string `json:"summary"`
	Camera     string `json:"camera"`
	Subject    string `json:"subject"`
	Setting    string `json:"setting"`
	Mood       string `json:"mood"`
	Effects    string `json:"effects"`
	Color      string `json:"color"`
	Sound      string `json:"sound"`
	Edit       string `json:"edit"`
	Render     string `json:"render"`
	FocalPoint string `json:"focal_point"`
	Timing     string `json:"timing"`
	Title      string `json:"title"`
	Style      string `json:"style"`
}

// Asset is a named visual/audio element referenced across scenes,
// deduplicated by id across chunks (last write wins).
type Asset struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type StyleMeta struct {
	Mood    string `json:"mood"`
	Palette string `json:"palette"`
	Music   string `json:"music"`
}

type VideoMeta struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Duration string    `json:"duration"`
	Style    StyleMeta `json:"style"`
}

// SceneBatch is what one per-chunk model request returns.
type SceneBatch struct {
	VideoMeta VideoMeta `json:"video_meta"`
	Scenes    []Scene   `json:"scenes"`
	Assets    []Asset   `json:"assets"`
}

// AnalysisResult is the terminal artifact of one analysis run, handed to
// the completion callback and to the downstream chat context.
type AnalysisResult struct {
	VideoMeta VideoMeta     `json:"video_meta"`
	Scenes    []Scene       `json:"scenes"`
	Assets    []Asset       `json:"assets"`
	Outline   *StoryOutline `json:"outline"`
}

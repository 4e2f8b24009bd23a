package services

import "github.com/google/generative-ai-go/genai"

// Response schemas are plain structural descriptions of the JSON the model
// must return; they carry no business logic.

// OutlineSchema describes the story-outline response shape.
func OutlineSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":   {Type: genai.TypeString, Description: "Short title for the video's story"},
			"logline": {Type: genai.TypeString, Description: "One-sentence story summary"},
			"parts": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":      {Type: genai.TypeInteger},
						"title":   {Type: genai.TypeString},
						"summary": {Type: genai.TypeString},
						"start":   {Type: genai.TypeString, Description: "Zero-padded mm:ss"},
						"end":     {Type: genai.TypeString, Description: "Zero-padded mm:ss"},
					},
					Required: []string{"id", "title", "summary", "start", "end"},
				},
				Description: "6-8 contiguous narrative parts spanning the full duration, first part starting at 00:00",
			},
		},
		Required: []string{"title", "logline", "parts"},
	}
}

// SceneBatchSchema describes one per-chunk scene-detail response.
func SceneBatchSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"video_meta": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"url":      {Type: genai.TypeString},
					"title":    {Type: genai.TypeString},
					"duration": {Type: genai.TypeString},
					"style": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"mood":    {Type: genai.TypeString},
							"palette": {Type: genai.TypeString},
							"music":   {Type: genai.TypeString},
						},
						Required: []string{"mood", "palette", "music"},
					},
				},
				Required: []string{"title", "duration", "style"},
			},
			"scenes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":          {Type: genai.TypeInteger},
						"start":       {Type: genai.TypeString, Description: "Zero-padded mm:ss"},
						"end":         {Type: genai.TypeString, Description: "Zero-padded mm:ss"},
						"summary":     {Type: genai.TypeString},
						"camera":      {Type: genai.TypeString},
						"subject":     {Type: genai.TypeString},
						"setting":     {Type: genai.TypeString},
						"mood":        {Type: genai.TypeString},
						"effects":     {Type: genai.TypeString},
						"color":       {Type: genai.TypeString},
						"sound":       {Type: genai.TypeString},
						"edit":        {Type: genai.TypeString},
						"render":      {Type: genai.TypeString},
						"focal_point": {Type: genai.TypeString},
						"timing":      {Type: genai.TypeString},
						"title":       {Type: genai.TypeString},
						"style":       {Type: genai.TypeString},
					},
					Required: []string{"id", "start", "end", "summary", "camera", "subject", "setting", "mood"},
				},
			},
			"assets": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":          {Type: genai.TypeString},
						"type":        {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"id", "type", "description"},
				},
				Description: "Named visual/audio elements referenced across scenes",
			},
		},
		Required: []string{"video_meta", "scenes", "assets"},
	}
}

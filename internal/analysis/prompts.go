package analysis

import (
	"fmt"
	"strings"

	"storyboard-backend/internal/models"
)

// Run modes: "variation" reimagines the video against a user prompt,
// "summary" compresses it to a shorter target duration, "full" walks the
// whole runtime.
func runMode(opts Options) string {
	if opts.VariationPrompt != "" {
		return "variation"
	}
	if opts.SummaryDuration > 0 {
		return "summary"
	}
	return "full"
}

func buildOutlinePrompt(meta models.VideoMetadata, opts Options, targetDuration int) string {
	var b strings.Builder

	b.WriteString("You are an expert film editor breaking a video down into a story outline.\n\n")

	b.WriteString(fmt.Sprintf("Video title: %s\n", meta.Title))
	b.WriteString(fmt.Sprintf("Target duration: %s (%d seconds)\n", FormatTimestamp(targetDuration), targetDuration))

	switch runMode(opts) {
	case "variation":
		b.WriteString(fmt.Sprintf("Mode: variation. Reimagine the story according to this direction: %s\n", opts.VariationPrompt))
	case "summary":
		b.WriteString(fmt.Sprintf("Mode: summary. Compress the story into exactly %d seconds while keeping its arc.\n", opts.SummaryDuration))
	default:
		b.WriteString("Mode: full. Cover the entire runtime faithfully.\n")
	}

	if opts.Style != "" {
		b.WriteString(fmt.Sprintf("Visual style: %s\n", opts.Style))
	}

	b.WriteString("\nConstraints:\n")
	b.WriteString("- The outline must have 6 to 8 parts.\n")
	b.WriteString(fmt.Sprintf("- Parts must be contiguous and together span exactly %s.\n", FormatTimestamp(targetDuration)))
	b.WriteString("- The first part must start at 00:00.\n")
	b.WriteString("- All timestamps must be zero-padded mm:ss strings.\n")

	return b.String()
}

func buildChunkPrompt(meta models.VideoMetadata, opts Options, outline *models.StoryOutline, w Window, sceneCount, chunkIdx, chunkTotal int) string {
	var b strings.Builder

	b.WriteString("You are an expert storyboard artist producing a detailed scene breakdown for one segment of a video.\n\n")

	b.WriteString(fmt.Sprintf("Video title: %s\n", outline.Title))
	b.WriteString(fmt.Sprintf("Story logline: %s\n", outline.Logline))
	b.WriteString(fmt.Sprintf("Segment %d of %d: %s to %s\n", chunkIdx+1, chunkTotal, FormatTimestamp(w.Start), FormatTimestamp(w.End)))

	b.WriteString("\nOutline parts overlapping this segment:\n")
	for _, part := range outline.Parts {
		b.WriteString(fmt.Sprintf("- [%s-%s] %s: %s\n", part.Start, part.End, part.Title, part.Summary))
	}

	b.WriteString("\nConstraints:\n")
	b.WriteString(fmt.Sprintf("- Produce exactly %d scenes for this segment.\n", sceneCount))
	b.WriteString(fmt.Sprintf("- Scene time ranges must be contiguous with no gaps, covering %s to %s completely.\n", FormatTimestamp(w.Start), FormatTimestamp(w.End)))
	b.WriteString("- All timestamps must be zero-padded mm:ss strings.\n")
	b.WriteString("- Fill every scene attribute: camera, subject, setting, mood, effects, color, sound, edit, render, focal_point, timing, title, style.\n")
	b.WriteString("- Reference recurring visual/audio elements through the assets list, reusing stable asset ids across segments.\n")

	if opts.Style != "" {
		b.WriteString(fmt.Sprintf("- Keep the visual style consistent with: %s.\n", opts.Style))
	}
	if opts.VariationPrompt != "" {
		b.WriteString(fmt.Sprintf("- Honor the variation direction: %s.\n", opts.VariationPrompt))
	}

	return b.String()
}

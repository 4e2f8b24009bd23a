package services

import (
	"fmt"
	"log"
	urlpkg "net/url"
	"regexp"
	"strings"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"

	"storyboard-backend/internal/models"
)

type YouTubeService struct {
	ytClient      *yt.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
}

func NewYouTubeService() *YouTubeService {
	return &YouTubeService{
		ytClient:      &yt.Client{},
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
	}
}

// GetVideoMetadata looks up a YouTube video and returns its metadata.
// Lookup failures degrade to a placeholder; this never returns an error.
// FormattedDuration is filled by the analyzer during metadata capture.
func (s *YouTubeService) GetVideoMetadata(videoURL string) models.VideoMetadata {
	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return placeholderMetadata(videoID)
	}

	video, err := s.ytClient.GetVideo(videoURL)
	if err != nil {
		log.Printf("YouTube metadata lookup failed for %s: %v", videoID, err)
		return placeholderMetadata(videoID)
	}

	thumbnail := defaultThumbnail(videoID)
	if len(video.Thumbnails) > 0 {
		thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}

	return models.VideoMetadata{
		VideoID:         videoID,
		Title:           video.Title,
		Author:          video.Author,
		ThumbnailURL:    thumbnail,
		DurationSeconds: int(video.Duration.Seconds()),
		HasCaptions:     s.hasCaptions(videoID),
	}
}

// MetadataForFile builds metadata for an uploaded local video file.
func MetadataForFile(filePath, title string, durationSeconds int) models.VideoMetadata {
	return models.VideoMetadata{
		VideoID:         "local",
		Title:           title,
		Author:          "Local Upload",
		DurationSeconds: durationSeconds,
		LocalFilePath:   &filePath,
	}
}

func placeholderMetadata(videoID string) models.VideoMetadata {
	title := "YouTube Video"
	if videoID != "" {
		title = "YouTube Video: " + videoID
	}
	return models.VideoMetadata{
		VideoID:      videoID,
		Title:        title,
		Author:       "Unknown Channel",
		ThumbnailURL: defaultThumbnail(videoID),
	}
}

func defaultThumbnail(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}

// hasCaptions probes the transcript API for any caption track.
func (s *YouTubeService) hasCaptions(videoID string) bool {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, nil)
	if err != nil {
		return false
	}
	return len(transcript.Entries) > 0
}

// ExtractVideoID pulls the 11-character video id out of the common YouTube
// URL shapes.
func ExtractVideoID(url string) string {
	parsed, err := urlpkg.Parse(url)
	if err == nil {
		host := strings.ToLower(parsed.Host)
		path := strings.Trim(parsed.Path, "/")

		// youtube.com/watch?v=VIDEO_ID
		if strings.Contains(host, "youtube.com") {
			if v := parsed.Query().Get("v"); len(v) == 11 {
				return v
			}

			parts := strings.Split(path, "/")
			if len(parts) >= 2 {
				switch parts[0] {
				case "shorts", "embed", "v":
					if len(parts[1]) == 11 {
						return parts[1]
					}
				}
			}
		}

		// youtu.be/VIDEO_ID
		if strings.Contains(host, "youtu.be") {
			candidate := strings.Split(path, "/")[0]
			if len(candidate) == 11 {
				return candidate
			}
		}
	}

	// Fallback regex for unusual URL forms
	re := regexp.MustCompile(`(?:v=|/v/|youtu\.be/|embed/|shorts/)([a-zA-Z0-9_-]{11})`)
	if m := re.FindStringSubmatch(url); len(m) > 1 {
		return m[1]
	}

	return ""
}

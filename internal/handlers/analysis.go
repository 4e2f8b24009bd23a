package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storyboard-backend/internal/models"
	"storyboard-backend/internal/repository"
	"storyboard-backend/internal/services"
)

type AnalysisHandler struct {
	libraryRepo *repository.LibraryRepo
	jobRepo     *repository.JobRepo
	redis       *redis.Client
	youtube     *services.YouTubeService
	storagePath string
	modelID     string
}

func NewAnalysisHandler(
	libraryRepo *repository.LibraryRepo,
	jobRepo *repository.JobRepo,
	redisClient *redis.Client,
	youtube *services.YouTubeService,
	storagePath string,
	modelID string,
) *AnalysisHandler {
	return &AnalysisHandler{
		libraryRepo: libraryRepo,
		jobRepo:     jobRepo,
		redis:       redisClient,
		youtube:     youtube,
		storagePath: storagePath,
		modelID:     modelID,
	}
}

// SubmitYouTube validates the URL, captures source metadata, records the
// library entry and queues the analysis job.
func (h *AnalysisHandler) SubmitYouTube(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitYouTubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if services.ExtractVideoID(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid YouTube URL", r))
		return
	}

	meta := h.youtube.GetVideoMetadata(req.URL)

	h.enqueue(w, r, "youtube", &req.URL, meta, models.AnalysisConfig{
		Style:           req.Style,
		VariationPrompt: req.VariationPrompt,
		SummaryDuration: req.SummaryDuration,
		VideoMetadata:   meta,
	})
}

// UploadFile accepts a local video upload plus analysis options as
// multipart form fields and queues the analysis job.
func (h *AnalysisHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > 500*1024*1024 { // 500MB
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 500MB limit", r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 500*1024*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".mp4", ".mov", ".webm", ".mkv":
	default:
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "File type not supported", r))
		return
	}

	relPath := filepath.Join("uploads", uuid.New().String()+ext)
	fullPath := filepath.Join(h.storagePath, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(fullPath)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	dst.Close()

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}
	durationSeconds, _ := strconv.Atoi(r.FormValue("duration_seconds"))
	summaryDuration, _ := strconv.Atoi(r.FormValue("summary_duration"))

	meta := services.MetadataForFile(relPath, title, durationSeconds)

	h.enqueue(w, r, "file", nil, meta, models.AnalysisConfig{
		Style:           r.FormValue("style"),
		VariationPrompt: r.FormValue("variation_prompt"),
		SummaryDuration: summaryDuration,
		VideoMetadata:   meta,
	})
}

func (h *AnalysisHandler) enqueue(w http.ResponseWriter, r *http.Request, sourceType string, sourceURL *string, meta models.VideoMetadata, config models.AnalysisConfig) {
	metaBytes, _ := json.Marshal(meta)

	entry := &models.LibraryEntry{
		SourceType:   sourceType,
		SourceURL:    sourceURL,
		Title:        meta.Title,
		ModelID:      h.modelID,
		MetadataJSON: metaBytes,
	}
	if meta.ThumbnailURL != "" {
		entry.ThumbnailURL = &meta.ThumbnailURL
	}

	if err := h.libraryRepo.Create(r.Context(), entry); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create library entry", r))
		return
	}

	configBytes, _ := json.Marshal(config)
	job := &models.Job{
		Type:        "storyboard-analysis",
		ReferenceID: entry.ID,
		ConfigJSON:  configBytes,
	}

	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	jobBytes, _ := json.Marshal(job)
	if err := h.redis.LPush(r.Context(), "queue:storyboard-analysis", string(jobBytes)).Err(); err != nil {
		log.Printf("failed to enqueue analysis job %s: %v", job.ID, err)
		_ = h.jobRepo.UpdateStatus(r.Context(), job.ID, "error")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue analysis job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":   job.ID,
		"entry_id": entry.ID,
	})
}

func (h *AnalysisHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	writeJSON(w, http.StatusOK, job)
}

type credentialsRequest struct {
	APIKey  string `json:"api_key"`
	Decline bool   `json:"decline"`
}

// SupplyCredentials answers a quota_exhausted event. The reply lands on the
// suspended job's per-job reply list; the worker resumes or fails the run
// accordingly.
func (h *AnalysisHandler) SupplyCredentials(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	reply := req.APIKey
	if req.Decline || reply == "" {
		reply = "decline"
	}

	replyKey := fmt.Sprintf("quota:replies:%s", id.String())
	if err := h.redis.LPush(r.Context(), replyKey, reply).Err(); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to deliver reply", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":   id,
		"accepted": reply != "decline",
	})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storyboard-backend/internal/models"
	"storyboard-backend/internal/repository"
	"storyboard-backend/internal/services"
)

type ChatHandler struct {
	libraryRepo *repository.LibraryRepo
	gemini      *services.GeminiService
	apiKeys     []string
}

func NewChatHandler(libraryRepo *repository.LibraryRepo, gemini *services.GeminiService, apiKeys []string) *ChatHandler {
	return &ChatHandler{
		libraryRepo: libraryRepo,
		gemini:      gemini,
		apiKeys:     apiKeys,
	}
}

// Ask answers a question about a completed storyboard. The stored result
// JSON is passed verbatim as model context; chat shares the credential pool
// but never rotates it, a quota failure here just surfaces to the caller.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid entry ID", r))
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	entry, err := h.libraryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Library entry not found", r))
		return
	}

	if entry.Status != "complete" || len(entry.ResultJSON) == 0 {
		writeJSON(w, http.StatusConflict, errorResp("NOT_READY", "Storyboard is not complete yet", r))
		return
	}

	reply, err := h.gemini.ChatWithStoryboard(r.Context(), h.apiKeys[0], string(entry.ResultJSON), req.Message, req.History)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Chat generation failed", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storyboard-backend/internal/repository"
)

type LibraryHandler struct {
	libraryRepo *repository.LibraryRepo
}

func NewLibraryHandler(libraryRepo *repository.LibraryRepo) *LibraryHandler {
	return &LibraryHandler{libraryRepo: libraryRepo}
}

func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if limit <= 0 || limit > 50 {
		limit = 20
	}

	entries, err := h.libraryRepo.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch library", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid entry ID", r))
		return
	}

	entry, err := h.libraryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Library entry not found", r))
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid entry ID", r))
		return
	}

	if _, err := h.libraryRepo.GetByID(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Library entry not found", r))
		return
	}

	if err := h.libraryRepo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete entry", r))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

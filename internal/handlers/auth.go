package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"storyboard-backend/internal/middleware"
	"storyboard-backend/internal/models"
)

type AuthHandler struct {
	jwtAuth    *middleware.JWTAuth
	serviceKey string
}

func NewAuthHandler(jwtAuth *middleware.JWTAuth, serviceKey string) *AuthHandler {
	return &AuthHandler{jwtAuth: jwtAuth, serviceKey: serviceKey}
}

type tokenRequest struct {
	ServiceKey string `json:"service_key"`
	ClientID   string `json:"client_id"`
}

// Token exchanges the configured service key for a short-lived JWT. The JWT
// exists so the websocket endpoint can authenticate via query parameter
// without carrying the long-lived key in every URL.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.ServiceKey), []byte(h.serviceKey)) != 1 {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Invalid service key", r))
		return
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = "default"
	}

	token, err := h.jwtAuth.GenerateServiceToken(clientID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to generate token", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

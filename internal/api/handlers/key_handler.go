// filepath: internal/api/handlers/key_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"aiopro/internal/logging"
	"aiopro/internal/models"
	"aiopro/internal/services"
)

// keyCreatePayload is the body of POST /api/key.
type keyCreatePayload struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// keyCreatedResponse carries the one-time plaintext key next to its record.
type keyCreatedResponse struct {
	Key       models.APIKey `json:"key"`
	Plaintext string        `json:"plaintext"`
}

// @Summary Issue a new API key
// @Description Creates an API key. The plaintext is returned once and cannot be recovered afterwards.
// @Tags keys
// @Accept json
// @Produce json
// @Param key body keyCreatePayload true "Key metadata"
// @Success 201 {object} keyCreatedResponse
// @Failure 400 {object} ErrorResponse "Invalid key name"
// @Failure 403 {object} ErrorResponse "Admin key required"
// @Security BearerAuth
// @Router /api/key [post]
func (h *Handlers) CreateKey(w http.ResponseWriter, r *http.Request) {
	var payload keyCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	key, plaintext, err := h.Key.CreateKey(r.Context(), actorName(r), payload.Name, payload.Admin)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		logging.Log.Errorf("CreateKey: failed to issue key: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create key.")
		return
	}

	respondWithJSON(w, http.StatusCreated, keyCreatedResponse{Key: *key, Plaintext: plaintext})
}

// @Summary List API keys
// @Description Lists issued API keys (metadata only, never secrets).
// @Tags keys
// @Produce json
// @Success 200 {array} models.APIKey
// @Failure 403 {object} ErrorResponse "Admin key required"
// @Security BearerAuth
// @Router /api/keys [get]
func (h *Handlers) GetKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.Key.GetKeys()
	if err != nil {
		logging.Log.Errorf("GetKeys: query failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list keys.")
		return
	}
	respondWithJSON(w, http.StatusOK, keys)
}

// @Summary Revoke an API key
// @Description Marks a key as revoked; it stops authenticating immediately.
// @Tags keys
// @Produce json
// @Param id query string true "Key ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Missing id parameter"
// @Failure 404 {object} ErrorResponse "Key not found"
// @Security BearerAuth
// @Router /api/key [delete]
func (h *Handlers) RevokeKey(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required query parameter: id")
		return
	}

	if err := h.Key.RevokeKey(r.Context(), actorName(r), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Key not found.")
			return
		}
		logging.Log.Errorf("RevokeKey: failed to revoke %s: %v", id, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to revoke key.")
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Key revoked."})
}

// filepath: internal/api/handlers/token_handler.go
package handlers

import (
	"net/http"

	"aiopro/internal/logging"
	"aiopro/internal/services/auth"
)

// tokenResponse is the body of a successful token exchange.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// @Summary Exchange an API key for an access token
// @Description Issues a short-lived JWT for the authenticated API key. Useful for GPT action OAuth-style flows where the long-lived key should not travel with every request.
// @Tags auth
// @Produce json
// @Success 200 {object} tokenResponse
// @Failure 401 {object} ErrorResponse "Missing or invalid API key"
// @Security BearerAuth
// @Router /api/token [post]
func (h *Handlers) GetToken(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	token, expiresIn, err := h.Token.IssueToken(identity)
	if err != nil {
		logging.Log.Errorf("GetToken: failed to issue token for %s: %v", identity.Name, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token.")
		return
	}

	respondWithJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"kajianhub/backend/internal/auth"

	"golang.org/x/crypto/bcrypt"
)

// adminAuthRequest represents admin auth request.
type adminAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthAdmin authenticates the directory admin and issues an access token.
func (h *Handler) AuthAdmin(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req adminAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "auth_admin", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	username := strings.TrimSpace(req.Username)
	password := req.Password
	if username == "" || password == "" {
		logger.Warn("action", "action", "auth_admin", "status", "invalid_credentials")
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}
	if h.cfg.AdminLogin == "" || (h.cfg.AdminPassword == "" && h.cfg.AdminPassHash == "") {
		logger.Warn("action", "action", "auth_admin", "status", "disabled")
		writeError(w, http.StatusUnauthorized, "admin login disabled")
		return
	}
	if username != h.cfg.AdminLogin {
		logger.Warn("action", "action", "auth_admin", "status", "invalid_credentials")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if h.cfg.AdminPassHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPassHash), []byte(password)); err != nil {
			logger.Warn("action", "action", "auth_admin", "status", "invalid_credentials")
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
	} else if password != h.cfg.AdminPassword {
		logger.Warn("action", "action", "auth_admin", "status", "invalid_credentials")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.SignAccessToken(h.cfg.JWTSecret, username)
	if err != nil {
		logger.Error("action", "action", "auth_admin", "status", "token_error", "error", err)
		writeError(w, http.StatusInternalServerError, "token error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": token,
	})
}

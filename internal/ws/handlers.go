package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/herocards/server/internal/auth"
	"github.com/herocards/server/internal/database"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Hub) tokenTTL() time.Duration {
	return time.Duration(h.cfg.JWTTTLHours) * time.Hour
}

// handleGuest issues a token for an ephemeral account. No password, no
// database row required.
func (h *Hub) handleGuest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req credentialsRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	id := uuid.New()
	username := req.Username
	if username == "" {
		username = "guest-" + id.String()[:8]
	}
	token, err := auth.CreateToken(h.cfg.JWTSecret, id, username, true, h.tokenTTL())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, UserID: id.String(), Username: username})
}

func (h *Hub) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if database.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "registration requires a database")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	id := uuid.New()
	if err := database.CreateUser(r.Context(), id, req.Username, hash, false); err != nil {
		logrus.WithError(err).Warn("register failed")
		writeError(w, http.StatusConflict, "username unavailable")
		return
	}
	token, err := auth.CreateToken(h.cfg.JWTSecret, id, req.Username, false, h.tokenTTL())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, UserID: id.String(), Username: req.Username})
}

func (h *Hub) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if database.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "login requires a database")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	id, hash, err := database.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	ok, err := auth.VerifyPassword(req.Password, hash)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := auth.CreateToken(h.cfg.JWTSecret, id, req.Username, false, h.tokenTTL())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, UserID: id.String(), Username: req.Username})
}

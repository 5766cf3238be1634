package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"pool-league/internal/audit"
	"pool-league/internal/auth"
	"pool-league/internal/db"
)

// AuthHandler issues admin tokens. The league has a single admin
// credential configured at deploy time; regular viewers never log in.
type AuthHandler struct {
	db                *db.MongoDB
	jwtService        *auth.JWTService
	passwordService   *auth.PasswordService
	adminPasswordHash string
}

func NewAuthHandler(database *db.MongoDB, jwtService *auth.JWTService, passwordService *auth.PasswordService, adminPasswordHash string) *AuthHandler {
	return &AuthHandler{
		db:                database,
		jwtService:        jwtService,
		passwordService:   passwordService,
		adminPasswordHash: adminPasswordHash,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Login checks the admin password and returns a signed access token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.adminPasswordHash == "" {
		respondWithError(w, http.StatusServiceUnavailable, "Admin login is not configured")
		return
	}

	if err := h.passwordService.ComparePassword(h.adminPasswordHash, req.Password); err != nil {
		audit.LogEvent(h.db, audit.EventLoginFailed, nil, r, "")
		respondWithError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := h.jwtService.GenerateAdminToken()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to generate access token")
		return
	}

	audit.LogEvent(h.db, audit.EventLoginSuccess, nil, r, "")
	respondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(h.jwtService.GetAccessTTL()),
	})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

package http

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/example42/pabawi-backend/internal/auth"
	apperrors "github.com/example42/pabawi-backend/internal/core/errors"
)

// AuthHandler authenticates the admin principal and issues JWTs. There
// is no user store; credentials come from configuration.
type AuthHandler struct {
	tokenManager      *auth.TokenManager
	adminUser         string
	adminPasswordHash string
	errorHandler      *ErrorHandler
	logger            *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokenManager *auth.TokenManager, adminUser, adminPasswordHash string, errorHandler *ErrorHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		tokenManager:      tokenManager,
		adminUser:         adminUser,
		adminPasswordHash: adminPasswordHash,
		errorHandler:      errorHandler,
		logger:            logger,
	}
}

// RegisterRoutes registers auth routes on the given router
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleLogin verifies the configured admin credentials and returns a JWT.
// POST /api/v1/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "invalid request body"))
		return
	}

	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUser)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(h.adminPasswordHash), []byte(req.Password))
	if !userMatch || passErr != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := h.tokenManager.GenerateToken(req.Username)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		return
	}

	WriteJSON(w, http.StatusOK, loginResponse{Token: token})
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bitemebuddy/admin-api/internal/auth"
	pkghttp "github.com/bitemebuddy/admin-api/pkg/http"
)

// AuthHandler handles admin login and logout
type AuthHandler struct {
	credentials auth.AdminCredentials
	sessions    *auth.SessionManager
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(credentials auth.AdminCredentials, sessions *auth.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		sessions:    sessions,
		logger:      logger,
	}
}

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// Login verifies the operator credentials and issues a session token
//
// @Summary Admin login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if !h.credentials.Verify(req.Username, req.Password) {
		h.logger.Warn("failed admin login attempt", slog.String("remote_addr", r.RemoteAddr))
		pkghttp.WriteUnauthorized(w, "Invalid username or password")
		return
	}

	token, err := h.sessions.Issue(req.Username)
	if err != nil {
		h.logger.Error("failed to issue session token", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	h.logger.Info("admin login", slog.String("username", req.Username))

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.sessions.Expiry().Seconds()),
	})
}

// Logout acknowledges a logout. Session tokens are stateless, so the client
// discards the token; there is nothing to revoke server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := auth.SessionFromContext(r); session != nil {
		h.logger.Info("admin logout", slog.String("username", session.Username))
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// decodeAndValidate decodes a JSON request body into dst and runs struct
// validation, writing the 400 envelope itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}
	if err := ValidateRequest(dst); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

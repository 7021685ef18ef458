package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/services"
)

// AuthHandler handles sign-in, sign-out and profile requests.
type AuthHandler struct {
	authService services.AuthServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthServicer) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the profile update payload
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SessionResponse describes the current session without exposing the token.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	User          *models.User `json:"user,omitempty"`
}

// Register handles account registration
// @Summary     Register a new account
// @Description Create a KasKita account on the backend. The caller still has to log in.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Registration data"
// @Success     201 {object} map[string]string "Registration accepted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	msg, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// Login handles user login
// @Summary     Log in
// @Description Authenticate against the backend and start a session. Any cached data of a previous session is discarded.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} SessionResponse "Logged in"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(sess.AccessToken != "", sess.ExpiresAt, sess.User))
}

// Logout ends the session
// @Summary     Log out
// @Description Revoke the token and wipe every cached aggregate
// @Tags        auth
// @Produce     json
// @Success     204 "Logged out"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSession reports whether a session is active
// @Summary     Current session
// @Tags        auth
// @Produce     json
// @Success     200 {object} SessionResponse "Session state"
// @Router      /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	sess := h.authService.Current()
	c.JSON(http.StatusOK, toSessionResponse(sess.AccessToken != "", sess.ExpiresAt, sess.User))
}

// GetProfile returns the signed-in user's profile
// @Summary     Get profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.Profile(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile renames the signed-in user
// @Summary     Update profile
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields"
// @Success     200 {object} models.User "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Backend error"
// @Router      /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func toSessionResponse(authenticated bool, expiresAt time.Time, user *models.User) SessionResponse {
	resp := SessionResponse{Authenticated: authenticated, User: user}
	if authenticated && !expiresAt.IsZero() {
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

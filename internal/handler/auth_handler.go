package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/mailroom-backend/internal/middleware"
	"github.com/stemsi/mailroom-backend/internal/model"
	"github.com/stemsi/mailroom-backend/internal/response"
	"github.com/stemsi/mailroom-backend/internal/service"
	"github.com/stemsi/mailroom-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// POST /api/auth/register
// Creates a user and returns its public profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		if fields.FieldFailed("role", "oneof") {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidRole)
			return
		}
		if fields.Failed("payload") {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrMissingFields)
		return
	}

	profile, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			response.Fail(c, http.StatusBadRequest, response.ErrMissingFields)
		case errors.Is(err, service.ErrInvalidRole):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidRole)
		case errors.Is(err, service.ErrDuplicateEmail):
			response.Fail(c, http.StatusBadRequest, response.ErrEmailTaken)
		default:
			_ = c.Error(err)
			response.Fail(c, http.StatusInternalServerError, response.ErrRegistrationFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// Login godoc
// POST /api/auth/login
// Authenticates with email and password and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrLoginFailed)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Me godoc
// GET /api/auth/me
// Returns the profile of the currently authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.authService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

package handlers

import (
	"net/http"

	"ecommerce-api/internal/apperrors"
	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	base
	userService  *services.UserService
	tokenService *services.TokenService
}

func NewAuthHandler(users *services.UserService, tokens *services.TokenService, opts Options, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		base:         base{logger: logger, opts: opts},
		userService:  users,
		tokenService: tokens,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.sendTokenResponse(w, r, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.sendTokenResponse(w, r, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearTokenCookie(w)
	respondWithData(w, http.StatusOK, struct{}{})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		h.respondWithError(w, r, apperrors.Unauthenticated("Not authorized to access this route"))
		return
	}
	respondWithData(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		h.respondWithError(w, r, apperrors.Unauthenticated("Not authorized to access this route"))
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.sendTokenResponse(w, r, updated)
}

// sendTokenResponse issues a token for user and returns it both in the body
// and as the token cookie.
func (h *AuthHandler) sendTokenResponse(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		h.respondWithError(w, r, apperrors.Upstream("failed to generate token", err))
		return
	}

	h.setTokenCookie(w, token)
	respondWithJSON(w, http.StatusOK, Response{
		Success: true,
		Token:   token,
		Data:    user,
	})
}

package handlers

import (
	"net/http"

	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/models"

	"github.com/gorilla/mux"
)

// Administrator endpoints share the auth handler's services. They never issue
// tokens for the users they act on.

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, users)
}

func (h *AuthHandler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req models.AdminUpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var adminID string
	if admin, ok := middleware.CurrentUser(r); ok {
		adminID = admin.ID
	}

	user, err := h.userService.AdminUpdate(r.Context(), mux.Vars(r)["id"], &req, adminID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithData(w, http.StatusOK, user)
}

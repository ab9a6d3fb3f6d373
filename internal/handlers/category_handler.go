package handlers

import (
	"net/http"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type CategoryHandler struct {
	base
	categoryService *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService, opts Options, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		base:            base{logger: logger, opts: opts},
		categoryService: categories,
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), &req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, struct{}{})
}

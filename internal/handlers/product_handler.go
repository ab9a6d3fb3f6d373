package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"ecommerce-api/internal/apperrors"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/query"
	"ecommerce-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	// maxUploadBody bounds the whole multipart request; the photo itself is
	// checked against models.MaxPhotoSize by the service.
	maxUploadBody  = 4 << 20
	maxFormMemory  = 2 << 20
	genericBinType = "application/octet-stream"
)

type ProductHandler struct {
	base
	productService *services.ProductService
}

func NewProductHandler(products *services.ProductService, opts Options, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		base:           base{logger: logger, opts: opts},
		productService: products,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.productService.List(r.Context(), query.ListingParams{
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
		Limit:  q.Get("limit"),
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := readProductForm(w, r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	product, err := h.productService.Create(r.Context(), form)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := readProductForm(w, r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	product, err := h.productService.Update(r.Context(), mux.Vars(r)["id"], form)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, struct{}{})
}

func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.Related(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("limit"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, products)
}

// Categories lists the ids of categories that have at least one product.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ids, err := h.productService.CategoriesInUse(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, ids)
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.productService.Search(r.Context(), query.SearchParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	})
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, products)
}

func (h *ProductHandler) ListBySearch(w http.ResponseWriter, r *http.Request) {
	var req query.FilterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	products, err := h.productService.FilterList(r.Context(), req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	length := len(products)
	respondWithJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
		Length:  &length,
	})
}

func (h *ProductHandler) Photo(w http.ResponseWriter, r *http.Request) {
	photo, err := h.productService.Photo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Data)
}

// readProductForm parses a multipart (or url-encoded) product form. The photo
// is read only up to one byte past the size limit so oversized uploads are
// rejected without buffering them whole.
func readProductForm(w http.ResponseWriter, r *http.Request) (*models.ProductForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, apperrors.New(apperrors.KindPayloadTooLarge, "Image should be less than 1mb in size")
		case errors.Is(err, http.ErrNotMultipart):
			if err := r.ParseForm(); err != nil {
				return nil, apperrors.Validation("Invalid form data")
			}
		default:
			return nil, apperrors.Validation("Image could not be uploaded")
		}
	}
	// r is a middleware copy; the server only cleans up its own request's form.
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	form := &models.ProductForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Category:    r.FormValue("category"),
		Quantity:    r.FormValue("quantity"),
		Shipping:    r.FormValue("shipping"),
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return form, nil
	case err != nil:
		return nil, apperrors.Validation("Image could not be uploaded")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, models.MaxPhotoSize+1))
	if err != nil {
		return nil, apperrors.Validation("Image could not be uploaded")
	}
	if len(data) == 0 {
		return form, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == genericBinType {
		contentType = http.DetectContentType(data)
	}

	form.Photo = &models.Photo{Data: data, ContentType: contentType}
	form.PhotoSize = header.Size
	return form, nil
}

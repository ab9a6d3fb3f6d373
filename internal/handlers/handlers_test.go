package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecommerce-api/internal/apperrors"
	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/services"
	"ecommerce-api/internal/store/memstore"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memstore.Store
	tokens     *services.TokenService
	auth       *AuthHandler
	categories *CategoryHandler
	products   *ProductHandler
}

func newFixture(opts Options) *fixture {
	st := memstore.New()
	logger := zerolog.Nop()
	tokens := services.NewTokenService("test-secret", time.Hour, logger)
	return &fixture{
		store:      st,
		tokens:     tokens,
		auth:       NewAuthHandler(services.NewUserService(st, logger), tokens, opts, logger),
		categories: NewCategoryHandler(services.NewCategoryService(st, st, logger), opts, logger),
		products:   NewProductHandler(services.NewProductService(st, st, logger), opts, logger),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	Length  *int            `json:"length"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

func withUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	models.PrepareCategory(c)
	require.NoError(t, f.store.CreateCategory(context.Background(), c))
	return c
}

func productForm(t *testing.T, fields map[string]string, photo []byte, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != nil {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="photo"; filename="photo.png"`}
		h["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	f := newFixture(Options{CookieExpireDays: 30})

	rec := httptest.NewRecorder()
	f.auth.Register(rec, jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"name":"Ada","email":"Ada@Example.com","password":"secret1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	require.NotEmpty(t, env.Token)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotContains(t, string(env.Data), "secret1")

	subject, err := f.tokens.Verify(env.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, env.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure)

	rec = httptest.NewRecorder()
	f.auth.Login(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"email":"ada@example.com","password":"secret1"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec).Token)

	rec = httptest.NewRecorder()
	f.auth.Login(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"email":"ada@example.com","password":"wrong-password"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env = decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid credentials", env.Error)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	f := newFixture(Options{})

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty body", ``, "Request body is required"},
		{"malformed", `{"name":`, "Invalid request body"},
		{"short password", `{"name":"Ada","email":"ada@example.com","password":"123"}`, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.auth.Register(rec, jsonRequest(http.MethodPost, "/api/v1/auth/register", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec).Error)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newFixture(Options{Production: true})

	rec := httptest.NewRecorder()
	f.auth.Logout(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{}}`, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.True(t, cookies[0].Secure)
}

func TestAuthHandler_MeRequiresUser(t *testing.T) {
	f := newFixture(Options{})

	rec := httptest.NewRecorder()
	f.auth.Me(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized to access this route", decode(t, rec).Error)

	rec = httptest.NewRecorder()
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), &models.User{ID: "u1", Name: "Ada"})
	f.auth.Me(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), `"id":"u1"`)
}

func TestCategoryHandler_CreateAndDelete(t *testing.T) {
	f := newFixture(Options{})

	rec := httptest.NewRecorder()
	f.categories.Create(rec, jsonRequest(http.MethodPost, "/api/v1/category/create", `{"name":"Books"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Category
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	assert.Equal(t, "Books", created.Name)

	rec = httptest.NewRecorder()
	f.categories.Create(rec, jsonRequest(http.MethodPost, "/api/v1/category/create", `{"name":"Books"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Duplicate field value entered", decode(t, rec).Error)

	require.NoError(t, f.store.CreateProduct(context.Background(), &models.Product{
		Name: "Atlas", CategoryID: created.ID, Price: 20,
	}))

	rec = httptest.NewRecorder()
	f.categories.Delete(rec, withVars(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": created.ID}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category Books has 1 products. Delete them first", decode(t, rec).Error)

	rec = httptest.NewRecorder()
	f.categories.Get(rec, withVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "missing"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No category found", decode(t, rec).Error)
}

func TestProductHandler_CreateWithPhoto(t *testing.T) {
	f := newFixture(Options{})
	books := f.category(t, "Books")
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 64)...)

	body, contentType := productForm(t, map[string]string{
		"name":        "Atlas",
		"description": "World maps",
		"price":       "20",
		"category":    books.ID,
		"quantity":    "3",
		"shipping":    "true",
	}, png, "image/png")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/product", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.products.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var product models.Product
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &product))
	assert.Equal(t, "Atlas", product.Name)
	assert.Equal(t, 20.0, product.Price)
	assert.True(t, product.HasPhoto)

	rec = httptest.NewRecorder()
	f.products.Photo(rec, withVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": product.ID}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestProductHandler_CreateRejectsIncompleteForm(t *testing.T) {
	f := newFixture(Options{})

	body, contentType := productForm(t, map[string]string{"name": "Atlas"}, nil, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/product", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.products.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", decode(t, rec).Error)
}

func TestProductHandler_CreateRejectsLargePhoto(t *testing.T) {
	f := newFixture(Options{})
	books := f.category(t, "Books")

	body, contentType := productForm(t, map[string]string{
		"name":        "Atlas",
		"description": "World maps",
		"price":       "20",
		"category":    books.ID,
		"quantity":    "3",
		"shipping":    "false",
	}, bytes.Repeat([]byte{0xff}, models.MaxPhotoSize+1), "image/jpeg")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/product", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.products.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Image should be less than 1mb in size", decode(t, rec).Error)
}

func TestProductHandler_ListBySearchIncludesLength(t *testing.T) {
	f := newFixture(Options{})
	books := f.category(t, "Books")
	ctx := context.Background()
	for _, p := range []models.Product{
		{Name: "Atlas", Price: 20, CategoryID: books.ID},
		{Name: "Novel", Price: 120, CategoryID: books.ID},
	} {
		p := p
		models.PrepareProduct(&p)
		require.NoError(t, f.store.CreateProduct(ctx, &p))
	}

	rec := httptest.NewRecorder()
	f.products.ListBySearch(rec, jsonRequest(http.MethodPost, "/api/v1/product/by/search",
		`{"filters":{"category":["`+books.ID+`"],"price":[10,50]}}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode(t, rec)
	require.NotNil(t, env.Length)
	assert.Equal(t, 1, *env.Length)

	var products []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Atlas", products[0].Name)
}

func TestProductHandler_SearchWithoutTermIsEmpty(t *testing.T) {
	f := newFixture(Options{})

	rec := httptest.NewRecorder()
	f.products.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/product/search", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestRespondWithError_HidesUpstreamInProduction(t *testing.T) {
	upstream := apperrors.Upstream("mongo: connection refused", errors.New("dial tcp"))

	rec := httptest.NewRecorder()
	base{logger: zerolog.Nop(), opts: Options{Production: true}}.
		respondWithError(rec, httptest.NewRequest(http.MethodGet, "/", nil), upstream)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", decode(t, rec).Error)

	rec = httptest.NewRecorder()
	base{logger: zerolog.Nop()}.
		respondWithError(rec, httptest.NewRequest(http.MethodGet, "/", nil), upstream)
	assert.Equal(t, "mongo: connection refused: dial tcp", decode(t, rec).Error)
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope?x=1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not Found - /api/v1/nope?x=1"}`, rec.Body.String())
}

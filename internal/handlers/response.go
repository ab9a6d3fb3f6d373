package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"ecommerce-api/internal/apperrors"
	"ecommerce-api/internal/middleware"

	"github.com/rs/zerolog"
)

const (
	maxJSONBody = 1 << 20
	tokenCookie = "token"
)

type Response struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data"`
	Length  *int        `json:"length,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Options carries the deployment settings handlers need.
type Options struct {
	Production       bool
	CookieExpireDays int
}

// base holds what every handler shares: the logger and how errors and
// cookies are rendered.
type base struct {
	logger zerolog.Logger
	opts   Options
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithData(w http.ResponseWriter, code int, data interface{}) {
	respondWithJSON(w, code, Response{Success: true, Data: data})
}

func (b base) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	status := kind.Status()

	event := b.logger.Debug()
	if status >= http.StatusInternalServerError {
		event = b.logger.Error()
	}
	event.Err(err).
		Str("request_id", middleware.RequestID(r.Context())).
		Str("kind", kind.String()).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")

	respondWithJSON(w, status, ErrorResponse{
		Success: false,
		Error:   apperrors.PublicMessage(err, b.opts.Production),
	})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperrors.New(apperrors.KindPayloadTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			return apperrors.Validation("Request body is required")
		default:
			return apperrors.Validation("Invalid request body")
		}
	}
	return nil
}

func (b base) setTokenCookie(w http.ResponseWriter, token string) {
	ttl := time.Duration(b.opts.CookieExpireDays) * 24 * time.Hour
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   b.opts.Production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (b base) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   b.opts.Production,
		SameSite: http.SameSiteLaxMode,
	})
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusNotFound, ErrorResponse{
		Success: false,
		Error:   "Not Found - " + r.URL.RequestURI(),
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

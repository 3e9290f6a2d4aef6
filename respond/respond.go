// Package respond renders console pages. Every page is a JSON document shaped
// like the API envelope plus the page title the navigation guard resolved.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/labconsole/apperror"
)

type titleKey struct{}

// WithTitle stores the page title for the renderer.
func WithTitle(ctx context.Context, title string) context.Context {
	return context.WithValue(ctx, titleKey{}, title)
}

// Title returns the page title stored by WithTitle, or "".
func Title(ctx context.Context) string {
	title, _ := ctx.Value(titleKey{}).(string)
	return title
}

// Page is the body of every console response.
type Page struct {
	Title   string `json:"title,omitempty"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// JSON writes data as a page with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	write(w, status, Page{
		Title:   Title(r.Context()),
		Code:    status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

// Message writes a page without data.
func Message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	write(w, status, Page{Title: Title(r.Context()), Code: status, Message: msg})
}

// Error renders err. Errors that are not an *apperror.AppError become
// internal errors.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred: "+err.Error(), err)
	}
	resp := appErr.ToResponse()
	write(w, appErr.StatusCode(), Page{
		Title:   Title(r.Context()),
		Code:    resp.Code,
		Message: resp.Message,
		Data:    resp.Data,
	})
}

func write(w http.ResponseWriter, status int, page Page) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(page); err != nil {
		http.Error(w, `{"message":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// WantsJSON reports whether the client sent or asked for JSON rather than an
// HTML form.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "json") ||
		strings.Contains(r.Header.Get("Accept"), "json")
}

// DecodeJSON reads the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewBadRequestError("request body is empty", err)
		}
		return apperror.NewBadRequestError("invalid request body: "+err.Error(), err)
	}
	return nil
}

// IntParam parses the chi URL parameter name as a positive integer.
func IntParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperror.NewBadRequestError("invalid "+name+": "+strconv.Quote(raw), err)
	}
	return n, nil
}

// QueryInt parses an optional integer query parameter. Missing values yield
// nil.
func QueryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.NewBadRequestError("invalid "+name+": "+strconv.Quote(raw), err)
	}
	return &n, nil
}

// QueryString returns an optional string query parameter. Missing values
// yield nil.
func QueryString(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v := r.URL.Query().Get(name)
	return &v
}

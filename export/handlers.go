package export

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/labconsole/reservations"
	"github.com/user/labconsole/respond"
)

// Handlers serves the export screen.
type Handlers struct {
	service *ExportService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *ExportService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the screen on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleExport())
}

// HandleExport streams the spreadsheet, or renders the rows when the request
// asks for format=json.
func (h *Handlers) HandleExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := reservations.ParseQuery(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if r.URL.Query().Get("format") == "json" {
			env, err := h.service.ReservationsJSON(r.Context(), q)
			if err != nil {
				respond.Error(w, r, err)
				return
			}
			respond.JSON(w, r, http.StatusOK, env.Data)
			return
		}

		att, err := h.service.Reservations(r.Context(), q)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": att.Filename}))
		w.Header().Set("Content-Length", strconv.Itoa(len(att.Data)))
		w.WriteHeader(http.StatusOK)
		w.Write(att.Data)
	}
}

package courses

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/labconsole/reservations"
	"github.com/user/labconsole/respond"
)

// Handlers serves the course screens.
type Handlers struct {
	service *CourseService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *CourseService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the screens on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Delete("/{id}", h.HandleDelete())
}

func parseQuery(r *http.Request) (*Query, error) {
	q := &Query{
		StartDate: respond.QueryString(r, "start_date"),
		EndDate:   respond.QueryString(r, "end_date"),
	}
	var err error
	if q.LabID, err = respond.QueryInt(r, "lab_id"); err != nil {
		return nil, err
	}
	if q.Page, err = respond.QueryInt(r, "page"); err != nil {
		return nil, err
	}
	if q.Size, err = respond.QueryInt(r, "size"); err != nil {
		return nil, err
	}
	if v := respond.QueryString(r, "time_slot"); v != nil {
		slot := reservations.TimeSlot(*v)
		q.TimeSlot = &slot
	}
	return q, nil
}

func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.List(r.Context(), q)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
	}
}

func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Create(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, env.Data)
	}
}

func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IntParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Delete(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
	}
}

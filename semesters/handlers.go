package semesters

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/respond"
)

// Handlers serves the semester screens.
type Handlers struct {
	service *SemesterService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *SemesterService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the screens on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/current", h.HandleCurrent())
	r.Put("/{id}", h.HandleUpdate())
}

func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := &Query{}
		var err error
		if q.Page, err = respond.QueryInt(r, "page"); err != nil {
			respond.Error(w, r, err)
			return
		}
		if q.Size, err = respond.QueryInt(r, "size"); err != nil {
			respond.Error(w, r, err)
			return
		}
		if v := respond.QueryString(r, "is_active"); v != nil {
			active, err := strconv.ParseBool(*v)
			if err != nil {
				respond.Error(w, r, apperror.NewBadRequestError("invalid is_active: "+strconv.Quote(*v), err))
				return
			}
			q.IsActive = &active
		}
		env, err := h.service.List(r.Context(), q)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		list := env.Data
		if list.Pagination == nil {
			list.Pagination = env.Pagination
		}
		respond.JSON(w, r, http.StatusOK, list)
	}
}

func (h *Handlers) HandleCurrent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env, err := h.service.Current(r.Context())
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

func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IntParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		var req UpdateRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
	}
}

package labs

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/respond"
)

// Handlers serves the lab screens.
type Handlers struct {
	service *LabService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *LabService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the screens on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleGet())
	r.Put("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := &Query{
			Q:         respond.QueryString(r, "q"),
			LabNumber: respond.QueryString(r, "lab_number"),
			Teacher:   respond.QueryString(r, "teacher"),
		}
		var err error
		if q.Page, err = respond.QueryInt(r, "page"); err != nil {
			respond.Error(w, r, err)
			return
		}
		if q.Size, err = respond.QueryInt(r, "size"); err != nil {
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

func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IntParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
	}
}

// readForm collects the lab fields present in a multipart request.
func readForm(r *http.Request) (UpdateRequest, func(), error) {
	var req UpdateRequest
	noop := func() {}
	str := func(name string) *string {
		if vs, ok := r.MultipartForm.Value[name]; ok && len(vs) > 0 {
			return &vs[0]
		}
		return nil
	}
	req.LabName = str("lab_name")
	req.LabNumber = str("lab_number")
	req.Teacher = str("teacher")
	req.Rules = str("rules")
	if v := str("capacity"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return req, noop, apperror.NewValidationError("capacity must be a number", err)
		}
		req.Capacity = &n
	}
	uploads, closeAll, err := respond.Uploads(r, "image")
	if err != nil {
		return req, closeAll, err
	}
	if len(uploads) > 0 {
		req.Image = &uploads[0]
	}
	return req, closeAll, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleanup, err := respond.ParseMultipart(r)
		defer cleanup()
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		fields, closeAll, err := readForm(r)
		defer closeAll()
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Create(r.Context(), CreateRequest{
			LabName:   deref(fields.LabName),
			LabNumber: deref(fields.LabNumber),
			Teacher:   deref(fields.Teacher),
			Rules:     deref(fields.Rules),
			Capacity:  deref(fields.Capacity),
			Image:     deref[httpclient.Upload](fields.Image),
		})
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
		cleanup, err := respond.ParseMultipart(r)
		defer cleanup()
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		fields, closeAll, err := readForm(r)
		defer closeAll()
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Update(r.Context(), id, fields)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
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

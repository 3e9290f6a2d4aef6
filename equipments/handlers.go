package equipments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/labconsole/respond"
)

// Handlers serves the equipment screens.
type Handlers struct {
	service *EquipmentService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *EquipmentService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the screens on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleGet())
	r.Patch("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := &Query{
			Q:        respond.QueryString(r, "q"),
			Category: respond.QueryString(r, "category"),
		}
		if v := respond.QueryString(r, "status"); v != nil {
			status := Status(*v)
			q.Status = &status
		}
		var err error
		for name, dst := range map[string]**int{"lab_id": &q.LabID, "page": &q.Page, "size": &q.Size} {
			if *dst, err = respond.QueryInt(r, name); err != nil {
				respond.Error(w, r, err)
				return
			}
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

func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IntParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if _, err := h.service.Delete(r.Context(), id); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Message(w, r, http.StatusOK, "deleted")
	}
}

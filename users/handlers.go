// Package users, as part of the user management module.
// This file, `handlers.go`, serves the account administration screens.
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/labconsole/respond"
)

// UserHandlers serves the user screens.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates a new UserHandlers instance.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// RegisterRoutes mounts the screens on r.
func (h *UserHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Patch("/", h.HandleUpdateStatus())
	r.Get("/me", h.HandleCurrent())
	r.Get("/{id}", h.HandleGet())
}

// HandleList shows the managed accounts grouped by role and approval state.
func (h *UserHandlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.List(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, list)
	}
}

// HandleCurrent shows the operator's own profile, fresh from the API.
func (h *UserHandlers) HandleCurrent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env, err := h.service.Current(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
	}
}

func (h *UserHandlers) HandleGet() http.HandlerFunc {
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

// HandleUpdateStatus approves, rejects or bans accounts in bulk.
func (h *UserHandlers) HandleUpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateStatusRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		resp, err := h.service.UpdateStatus(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, resp)
	}
}

// Package auth, as part of the account module.
// This file, `handlers.go`, serves the self-service account screens:
// registration, password reset and password change. Sign-in and sign-out
// belong to the session package, which owns the token.
package auth

import (
	"net/http"

	"github.com/user/labconsole/respond"
	"github.com/user/labconsole/users"
)

// Handlers wraps the AuthService to provide the console's account screens.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

type registerPage struct {
	Roles []users.Role `json:"roles"`
}

// HandleRegisterPage lists the roles that may register themselves.
func (h *Handlers) HandleRegisterPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, registerPage{Roles: []users.Role{users.RoleStudent, users.RoleTemporary}})
	}
}

// HandleRegister creates an account. New accounts wait for approval, so
// the operator stays signed out.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Register(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, env.Data)
	}
}

// HandleResetPassword sets a new password for a forgotten account.
func (h *Handlers) HandleResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.ResetPassword(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Message(w, r, http.StatusOK, messageOr(env.Message, "password reset"))
	}
}

// HandleChangePassword changes the signed-in operator's password.
func (h *Handlers) HandleChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChangePasswordRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.ChangePassword(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Message(w, r, http.StatusOK, messageOr(env.Message, "password changed"))
	}
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

type formPage struct {
	Fields []string `json:"fields"`
}

// HandleFormPage describes a form by the fields it expects.
func (h *Handlers) HandleFormPage(fields ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, formPage{Fields: fields})
	}
}

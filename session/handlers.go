package session

import (
	"net/http"
	"strings"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/auth"
	"github.com/user/labconsole/respond"
	"github.com/user/labconsole/users"
)

// Handlers serves the sign-in, sign-out and session screens.
type Handlers struct {
	store *Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

type loginPage struct {
	Redirect string `json:"redirect"`
}

type loginResult struct {
	User     *users.User `json:"user"`
	Redirect string      `json:"redirect"`
}

// HandleLoginPage describes the sign-in form and where a successful sign-in
// will land.
func (h *Handlers) HandleLoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, loginPage{Redirect: SafeRedirect(r.URL.Query().Get("redirect"))})
	}
}

// HandleLogin signs in. JSON clients get the profile back; form posts are
// sent on to the page they were originally headed for.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		redirect := r.URL.Query().Get("redirect")
		if respond.WantsJSON(r) {
			if err := respond.DecodeJSON(r, &req); err != nil {
				respond.Error(w, r, err)
				return
			}
		} else {
			if err := r.ParseForm(); err != nil {
				respond.Error(w, r, apperror.NewBadRequestError("invalid form", err))
				return
			}
			req.Account = r.PostForm.Get("account")
			req.Password = r.PostForm.Get("password")
			if v := r.PostForm.Get("redirect"); v != "" {
				redirect = v
			}
		}
		redirect = SafeRedirect(redirect)

		user, err := h.store.Login(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if respond.WantsJSON(r) {
			respond.JSON(w, r, http.StatusOK, loginResult{User: user, Redirect: redirect})
			return
		}
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	}
}

// HandleLogout ends the session.
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Logout(r.Context()); err != nil {
			respond.Error(w, r, err)
			return
		}
		if respond.WantsJSON(r) {
			respond.Message(w, r, http.StatusOK, "signed out")
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// HandleSession shows the held session.
func (h *Handlers) HandleSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, h.store.Snapshot())
	}
}

// SafeRedirect keeps redirect targets on the console: only absolute paths
// are honored, and anything else (or a loop back to sign-in) lands on "/".
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	if target == "/login" || strings.HasPrefix(target, "/login?") {
		return "/"
	}
	return target
}

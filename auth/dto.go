// Package auth wraps the account endpoints of the lab reservation API:
// sign in, self-registration, and password changes.
// This file, `dto.go`, defines the request and response payloads.
package auth

import "github.com/user/labconsole/users"

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Account  string `json:"account" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginData is the `data` of a successful login. Only Token is guaranteed;
// the rest echoes the account for display.
type LoginData struct {
	Token   string     `json:"token"`
	Role    users.Role `json:"role,omitempty"`
	Account string     `json:"account,omitempty"`
	Name    string     `json:"name,omitempty"`
	Phone   *string    `json:"phone,omitempty"`
}

// RegisterRequest is the payload for POST /auth/register. Only students and
// temporary users may register themselves; new accounts start pending.
type RegisterRequest struct {
	Name     string     `json:"name" validate:"required"`
	Account  string     `json:"account" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Phone    string     `json:"phone" validate:"required"`
	Role     users.Role `json:"role" validate:"required,oneof=student temporary"`
	Grade    *string    `json:"grade,omitempty"`
	Purpose  *string    `json:"purpose,omitempty"`
}

// RegisterData is the `data` of a registration.
type RegisterData struct {
	Status users.Status `json:"status"`
}

// ChangePasswordRequest changes the signed-in user's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ResetPasswordRequest resets a forgotten password. The phone number on file
// proves ownership of the account.
type ResetPasswordRequest struct {
	Account     string `json:"account" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

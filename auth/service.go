// Package auth, as part of the account module.
// This file, `service.go`, performs the account API calls.
package auth

import (
	"context"
	"net/http"

	"github.com/user/labconsole/httpclient"
)

// AuthService calls the /auth endpoints.
type AuthService struct {
	client *httpclient.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(client *httpclient.Client) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for a token. A 401 here means bad credentials,
// so the call is anonymous and never evicts a held session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*httpclient.Envelope[LoginData], error) {
	return httpclient.Do[LoginData](ctx, s.client, httpclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      req,
		Anonymous: true,
	})
}

// Register creates a pending account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*httpclient.Envelope[RegisterData], error) {
	return httpclient.Do[RegisterData](ctx, s.client, httpclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		Body:      req,
		Anonymous: true,
	})
}

// ChangePassword changes the signed-in user's password.
func (s *AuthService) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*httpclient.Envelope[any], error) {
	return httpclient.Do[any](ctx, s.client, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/change-password",
		Body:   req,
	})
}

// ResetPassword sets a new password for an account identified by its phone.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*httpclient.Envelope[any], error) {
	return httpclient.Do[any](ctx, s.client, httpclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/reset-password",
		Body:      req,
		Anonymous: true,
	})
}

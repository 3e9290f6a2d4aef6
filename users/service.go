// Package users, as part of the user management module.
// This file, `service.go`, performs the user API calls. Each method is one
// HTTP request; the decoded body is returned unmodified.
package users

import (
	"context"
	"net/http"
	"strconv"

	"github.com/user/labconsole/httpclient"
)

// UserService calls the user endpoints.
type UserService struct {
	client      *httpclient.Client
	profilePath string
	scope       Scope
}

// NewUserService creates a new UserService. profilePath is the endpoint that
// returns the current user (`/users/me` or `/user/current` depending on the
// server build); scope selects the administration prefix.
func NewUserService(client *httpclient.Client, profilePath string, scope Scope) *UserService {
	if profilePath == "" {
		profilePath = "/users/me"
	}
	return &UserService{client: client, profilePath: profilePath, scope: scope}
}

func (s *UserService) scoped(path string) string {
	if s.scope == ScopeNone {
		return path
	}
	return "/" + string(s.scope) + path
}

// Current fetches the profile of the token's owner.
func (s *UserService) Current(ctx context.Context) (*httpclient.Envelope[User], error) {
	return httpclient.Do[User](ctx, s.client, httpclient.Request{
		Method: http.MethodGet,
		Path:   s.profilePath,
	})
}

// managedUsersBody accepts the listing with or without the envelope; some
// server builds answer with the bare buckets.
type managedUsersBody struct {
	Data      *ManagedUsers `json:"data"`
	Student   Buckets       `json:"student"`
	Temporary Buckets       `json:"temporary"`
}

// List returns the managed accounts grouped by role and status.
func (s *UserService) List(ctx context.Context) (*ManagedUsers, error) {
	body, err := httpclient.DoJSON[managedUsersBody](ctx, s.client, httpclient.Request{
		Method: http.MethodGet,
		Path:   s.scoped("/users"),
	})
	if err != nil {
		return nil, err
	}
	if body.Data != nil {
		return body.Data, nil
	}
	return &ManagedUsers{Student: body.Student, Temporary: body.Temporary}, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id int) (*httpclient.Envelope[User], error) {
	return httpclient.Do[User](ctx, s.client, httpclient.Request{
		Method: http.MethodGet,
		Path:   s.scoped("/users/" + strconv.Itoa(id)),
	})
}

// UpdateStatus approves, rejects or bans a batch of accounts.
func (s *UserService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*UpdateStatusResponse, error) {
	return httpclient.DoJSON[UpdateStatusResponse](ctx, s.client, httpclient.Request{
		Method: http.MethodPatch,
		Path:   s.scoped("/users"),
		Body:   req,
	})
}

package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/config"
	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/logger"
	"github.com/user/labconsole/users"
)

type countingCreds struct {
	evictions atomic.Int32
}

func (c *countingCreds) Token(context.Context) (string, error) { return "held", nil }
func (c *countingCreds) Evict(context.Context) error {
	c.evictions.Add(1)
	return nil
}

func newService(t *testing.T, h http.HandlerFunc, creds httpclient.Credentials) *AuthService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := httpclient.New(&config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, creds, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthService(c)
}

func TestLogin(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		if body.Account != "u1" || body.Password != "pw" {
			t.Errorf("body = %+v", body)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":{"token":"abc","role":"admin","account":"u1","name":"Alice"}}`)
	}, nil)

	env, err := s.Login(context.Background(), LoginRequest{Account: "u1", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if env.Data.Token != "abc" || env.Data.Role != users.RoleAdmin {
		t.Errorf("data = %+v", env.Data)
	}
}

func TestLogin_BadPasswordDoesNotEvictHeldSession(t *testing.T) {
	creds := &countingCreds{}
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"code":401,"message":"wrong account or password"}`)
	}, creds)

	_, err := s.Login(context.Background(), LoginRequest{Account: "u1", Password: "nope"})
	if !apperror.IsAuthError(err) {
		t.Fatalf("error = %v, want auth error", err)
	}
	if n := creds.evictions.Load(); n != 0 {
		t.Errorf("evictions = %d, want 0", n)
	}
}

func TestChangePassword_401EvictsSession(t *testing.T) {
	creds := &countingCreds{}
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, creds)

	if _, err := s.ChangePassword(context.Background(), ChangePasswordRequest{OldPassword: "a", NewPassword: "b"}); err == nil {
		t.Fatal("expected an error")
	}
	if n := creds.evictions.Load(); n != 1 {
		t.Errorf("evictions = %d, want 1", n)
	}
}

func TestRegister_RoleIsRestricted(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, nil)

	_, err := s.Register(context.Background(), RegisterRequest{
		Name: "Bob", Account: "b1", Password: "pw", Phone: "555", Role: users.RoleAdmin,
	})
	if !apperror.IsValidationError(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestRegister_ReturnsPending(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"code":201,"message":"registered","data":{"status":"pending"}}`)
	}, nil)

	grade := "2025"
	env, err := s.Register(context.Background(), RegisterRequest{
		Name: "Bob", Account: "b1", Password: "pw", Phone: "555", Role: users.RoleStudent, Grade: &grade,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if env.Data.Status != users.StatusPending {
		t.Errorf("status = %q", env.Data.Status)
	}
}

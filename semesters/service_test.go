package semesters

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/labconsole/config"
	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/logger"
)

func newService(t *testing.T, h http.HandlerFunc) *SemesterService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := httpclient.New(&config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, nil, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return NewSemesterService(c)
}

func TestList_TopLevelPagination(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("is_active") != "true" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":[{"ID":4,"name":"Spring 2026","is_active":true}],"pagination":{"page":1,"size":10,"total":1}}`)
	})

	active := true
	env, err := s.List(context.Background(), &Query{IsActive: &active})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(env.Data.Items) != 1 || env.Data.Items[0].ID != 4 {
		t.Errorf("items = %+v", env.Data.Items)
	}
	if env.Pagination == nil || env.Pagination.Total != 1 {
		t.Errorf("pagination = %+v", env.Pagination)
	}
}

func TestCurrent(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/semesters/current" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":{"ID":4,"name":"Spring 2026","start_date":"2026-02-23","end_date":"2026-07-03","is_active":true}}`)
	})

	env, err := s.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !env.Data.IsActive || env.Data.Name != "Spring 2026" {
		t.Errorf("data = %+v", env.Data)
	}
}

func TestUpdate_UsesPut(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/semesters/4" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":{"ID":4,"name":"Spring"}}`)
	})

	name := "Spring"
	if _, err := s.Update(context.Background(), 4, UpdateRequest{Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

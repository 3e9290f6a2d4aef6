package courses

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/labconsole/config"
	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/logger"
	"github.com/user/labconsole/reservations"
)

func newService(t *testing.T, h http.HandlerFunc) *CourseService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := httpclient.New(&config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, nil, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return NewCourseService(c)
}

func TestList_DecodesItemsObject(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lab_id") != "2" || r.URL.Query().Get("page") != "1" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":{"items":[{"id":1,"lab_id":2,"time_slot":"morning"}],"total":11}}`)
	})

	lab, page := 2, 1
	env, err := s.List(context.Background(), &Query{LabID: &lab, Page: &page})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(env.Data.Items) != 1 || env.Data.Count() != 11 {
		t.Errorf("list = %+v", env.Data)
	}
}

func TestCreate(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/courses" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		if body.LabID != 2 || body.TimeSlot != reservations.SlotEvening {
			t.Errorf("body = %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"code":201,"message":"created","data":{"id":8,"lab_id":2}}`)
	})

	env, err := s.Create(context.Background(), CreateRequest{LabID: 2, Date: "2026-03-02", TimeSlot: reservations.SlotEvening, Reason: "Circuits"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if env.Code != 201 || env.Data.ID != 8 {
		t.Errorf("env = %+v", env)
	}
}

func TestDelete(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/courses/8" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"code":200,"message":"deleted","data":{"id":8}}`)
	})
	if _, err := s.Delete(context.Background(), 8); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

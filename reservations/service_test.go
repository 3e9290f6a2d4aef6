package reservations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/config"
	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/logger"
)

func newService(t *testing.T, h http.HandlerFunc) *ReservationService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := httpclient.New(&config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, nil, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return NewReservationService(c)
}

func TestList_EncodesFilters(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/reservations" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("room_id") != "3" || q.Get("status") != "pending" || q.Get("time_slot") != "noon" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if q.Has("creator_account") {
			t.Error("unset filters should be omitted")
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":[{"id":1,"time_slot":"noon","status":"pending","participants":[]}]}`)
	})

	room, status, slot := 3, StatusPending, SlotNoon
	env, err := s.List(context.Background(), &Query{RoomID: &room, Status: &status, TimeSlot: &slot})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(env.Data.Items) != 1 || env.Data.Items[0].TimeSlot != SlotNoon {
		t.Errorf("items = %+v", env.Data.Items)
	}
}

func TestCreate_RequiresFieldsBeforeSending(t *testing.T) {
	called := false
	s := newService(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := s.Create(context.Background(), CreateRequest{Purpose: "lab", TimeSlot: "midnight"})
	if !apperror.IsValidationError(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if called {
		t.Error("invalid payload should not reach the API")
	}
}

func TestUpdate_SendsOnlyPresentFields(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/reservations/9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		if len(body) != 1 || body["purpose"] != "review" {
			t.Errorf("body = %v", body)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":{"id":9,"purpose":"review"}}`)
	})

	purpose := "review"
	env, err := s.Update(context.Background(), 9, UpdateRequest{Purpose: &purpose})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if env.Data.Purpose != "review" {
		t.Errorf("data = %+v", env.Data)
	}
}

func TestCancel(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/reservations/4" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"code":200,"message":"cancelled","data":{"id":4,"status":"cancelled","canceled_at":"2026-03-01T10:00:00Z"}}`)
	})

	env, err := s.Cancel(context.Background(), 4)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if env.Data.Status != StatusCancelled || env.Data.CanceledAt == nil {
		t.Errorf("data = %+v", env.Data)
	}
}

func TestUploadPhotos_SendsEachFileAsPhotosPart(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservations/5/photos" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if n := len(r.MultipartForm.File["photos"]); n != 2 {
			t.Errorf("photos parts = %d, want 2", n)
		}
		io.WriteString(w, `{"code":201,"message":"ok","data":{"uploaded_urls":["/a.jpg","/b.jpg"]}}`)
	})

	env, err := s.UploadPhotos(context.Background(), 5, []httpclient.Upload{
		{Filename: "a.jpg", Content: strings.NewReader("a")},
		{Filename: "b.jpg", Content: strings.NewReader("b")},
	})
	if err != nil {
		t.Fatalf("UploadPhotos: %v", err)
	}
	if len(env.Data.UploadedURLs) != 2 {
		t.Errorf("urls = %v", env.Data.UploadedURLs)
	}
}

func TestUploadPhotos_RequiresAFile(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := s.UploadPhotos(context.Background(), 5, nil); !apperror.IsValidationError(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestLabels(t *testing.T) {
	if got := SlotAfternoon.Label(); got != "13:00-14:30" {
		t.Errorf("afternoon label = %q", got)
	}
	if got := TimeSlot("").Label(); got != "—" {
		t.Errorf("empty label = %q", got)
	}
	if got := TimeSlot("late").Label(); got != "late" {
		t.Errorf("unknown label = %q", got)
	}
	if got := StatusViolated.Meta(); got.Tone != "danger" {
		t.Errorf("violated meta = %+v", got)
	}
	if len(Statuses) != 6 {
		t.Errorf("statuses = %d, want 6", len(Statuses))
	}
}

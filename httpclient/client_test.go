package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/config"
	"github.com/user/labconsole/logger"
)

type fakeCreds struct {
	token   string
	evicted atomic.Int32
}

func (f *fakeCreds) Token(context.Context) (string, error) { return f.token, nil }
func (f *fakeCreds) Evict(context.Context) error {
	f.evicted.Add(1)
	f.token = ""
	return nil
}

func newTestClient(t *testing.T, h http.HandlerFunc, creds Credentials) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(&config.APIConfig{BaseURL: srv.URL + "/api/v1", Timeout: 2 * time.Second}, creds, logger.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDo_AttachesBearerTokenAndDecodesEnvelope(t *testing.T) {
	creds := &fakeCreds{token: "abc"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/labs/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("Authorization = %q, want Bearer abc", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID should be set")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"code":200,"message":"ok","data":{"id":7,"name":"Robotics"}}`)
	}, creds)

	env, err := Do[item](context.Background(), c, Request{Method: http.MethodGet, Path: "/labs/7"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if env.Code != 200 || env.Data.ID != 7 || env.Data.Name != "Robotics" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestDo_OmitsAuthorizationWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want none", got)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":null}`)
	}, &fakeCreds{})

	if _, err := Do[any](context.Background(), c, Request{Method: http.MethodGet, Path: "/semesters/current"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestDo_401EvictsCredentials(t *testing.T) {
	creds := &fakeCreds{token: "stale"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"code":401,"message":"token expired","data":null}`)
	}, creds)

	_, err := Do[any](context.Background(), c, Request{Method: http.MethodGet, Path: "/reservations"})
	if !apperror.IsAuthError(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if creds.evicted.Load() != 1 {
		t.Errorf("Evict called %d times, want 1", creds.evicted.Load())
	}
	appErr, _ := apperror.FromError(err)
	if appErr.Message != "token expired" || appErr.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("appErr = %+v", appErr)
	}
}

func TestDo_401OnAnonymousRequestKeepsCredentials(t *testing.T) {
	creds := &fakeCreds{token: "held"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"code":401,"message":"invalid credentials"}`)
	}, creds)

	_, err := Do[any](context.Background(), c, Request{Method: http.MethodPost, Path: "/auth/login", Body: map[string]string{}, Anonymous: true})
	if !apperror.IsAuthError(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if creds.evicted.Load() != 0 {
		t.Error("anonymous request must not evict credentials")
	}
}

func TestDo_BusinessErrorInSuccessfulResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":409,"message":"time slot already booked","data":null}`)
	}, nil)

	_, err := Do[any](context.Background(), c, Request{Method: http.MethodPost, Path: "/reservations", Body: map[string]any{}})
	if !apperror.IsConflictError(err) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestDo_ServerErrorWithoutEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}, nil)

	_, err := Do[any](context.Background(), c, Request{Method: http.MethodGet, Path: "/labs"})
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.ExternalServiceError || appErr.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("err = %#v", err)
	}
}

func TestDo_TimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()
	c, err := New(&config.APIConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil, logger.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = Do[any](context.Background(), c, Request{Method: http.MethodGet, Path: "/labs"})
	if !apperror.IsTransportError(err) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %q, want a timeout message", err.Error())
	}
}

type listQuery struct {
	LabID *int   `url:"lab_id,omitempty"`
	Q     string `url:"q,omitempty"`
	Page  int    `url:"page,omitempty"`
}

func TestDo_EncodesQueryStruct(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "lab_id=3&page=2" {
			t.Errorf("query = %q, want lab_id=3&page=2", got)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":[]}`)
	}, nil)

	lab := 3
	if _, err := Do[List[item]](context.Background(), c, Request{Method: http.MethodGet, Path: "/equipments", Query: &listQuery{LabID: &lab, Page: 2}}); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

type loginBody struct {
	Account  string `json:"account" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func TestDo_ValidatesBodyBeforeSending(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, nil)

	_, err := Do[any](context.Background(), c, Request{Method: http.MethodPost, Path: "/auth/login", Body: loginBody{Account: "u1"}})
	if !apperror.IsValidationError(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(err.Error(), "password is required") {
		t.Errorf("err = %q", err.Error())
	}
	if calls.Load() != 0 {
		t.Error("an invalid payload must not reach the server")
	}
}

func TestDo_SendsMultipartForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if got := r.FormValue("lab_name"); got != "Optics" {
			t.Errorf("lab_name = %q", got)
		}
		files := r.MultipartForm.File["photos"]
		if len(files) != 2 {
			t.Errorf("photos = %d, want 2", len(files))
			return
		}
		if files[1].Filename != "after.jpg" {
			t.Errorf("filename = %q", files[1].Filename)
		}
		io.WriteString(w, `{"code":200,"message":"ok","data":{"uploaded_urls":["/a","/b"]}}`)
	}, nil)

	form := NewMultipart().
		Field("lab_name", "Optics").
		File("photos", Upload{Filename: "before.jpg", Content: strings.NewReader("x")}).
		File("photos", Upload{Filename: "after.jpg", Content: strings.NewReader("y")})
	if form.Len() != 3 {
		t.Errorf("Len() = %d, want 3", form.Len())
	}
	env, err := Do[struct {
		URLs []string `json:"uploaded_urls"`
	}](context.Background(), c, Request{Method: http.MethodPost, Path: "/reservations/1/photos", Form: form})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(env.Data.URLs) != 2 {
		t.Errorf("urls = %v", env.Data.URLs)
	}
}

func TestDownload_ReturnsBodyAndFilename(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="reservations.xlsx"`)
		w.Write([]byte("PK\x03\x04"))
	}, nil)

	att, err := c.Download(context.Background(), Request{Method: http.MethodGet, Path: "/export/reservations"})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if att.Filename != "reservations.xlsx" || string(att.Data) != "PK\x03\x04" {
		t.Errorf("attachment = %+v", att)
	}
}

func TestDoJSON_DecodesBareBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"updated","updated_count":3}`)
	}, nil)

	out, err := DoJSON[struct {
		Message string `json:"message"`
		Count   int    `json:"updated_count"`
	}](context.Background(), c, Request{Method: http.MethodPatch, Path: "/users"})
	if err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Count != 3 {
		t.Errorf("Count = %d", out.Count)
	}
}

func TestList_DecodesBothShapes(t *testing.T) {
	var flat List[item]
	if err := json.Unmarshal([]byte(`[{"id":1},{"id":2}]`), &flat); err != nil {
		t.Fatalf("flat: %v", err)
	}
	if len(flat.Items) != 2 || flat.Count() != 2 {
		t.Errorf("flat = %+v", flat)
	}

	var obj List[item]
	if err := json.Unmarshal([]byte(`{"items":[{"id":1}],"total":40,"pagination":{"page":1,"size":1,"total":40}}`), &obj); err != nil {
		t.Fatalf("object: %v", err)
	}
	if len(obj.Items) != 1 || obj.Total == nil || *obj.Total != 40 || obj.Pagination.Size != 1 {
		t.Errorf("object = %+v", obj)
	}

	var paged List[item]
	if err := json.Unmarshal([]byte(`{"items":[],"pagination":{"page":2,"size":10,"total":15}}`), &paged); err != nil {
		t.Fatalf("paged: %v", err)
	}
	if paged.Count() != 15 {
		t.Errorf("Count() = %d, want pagination total", paged.Count())
	}

	var empty List[item]
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil || empty.Items != nil {
		t.Errorf("null = %+v, %v", empty, err)
	}
	if err := json.Unmarshal([]byte(`"nope"`), &empty); err == nil {
		t.Error("a string should not decode as a list")
	}
}

func TestEnvelope_TopLevelPagination(t *testing.T) {
	var env Envelope[List[item]]
	body := `{"code":200,"message":"ok","data":[{"id":1}],"pagination":{"page":1,"size":20,"total":1}}`
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if env.Pagination == nil || env.Pagination.Total != 1 || len(env.Data.Items) != 1 {
		t.Errorf("envelope = %+v", env)
	}
	out, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasPrefix(string(out), `{"items":[`) {
		t.Errorf("List marshals as %s", out)
	}
}

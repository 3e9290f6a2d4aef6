package semesters

import (
	"context"
	"net/http"
	"strconv"

	"github.com/user/labconsole/httpclient"
)

// SemesterService calls the /semesters endpoints.
type SemesterService struct {
	client *httpclient.Client
}

// NewSemesterService creates a new SemesterService.
func NewSemesterService(client *httpclient.Client) *SemesterService {
	return &SemesterService{client: client}
}

// List returns a page of semesters. The pagination block comes at the top
// level of the envelope.
func (s *SemesterService) List(ctx context.Context, q *Query) (*httpclient.Envelope[httpclient.List[Semester]], error) {
	req := httpclient.Request{Method: http.MethodGet, Path: "/semesters"}
	if q != nil {
		req.Query = q
	}
	return httpclient.Do[httpclient.List[Semester]](ctx, s.client, req)
}

// Current returns the active semester.
func (s *SemesterService) Current(ctx context.Context) (*httpclient.Envelope[Semester], error) {
	return httpclient.Do[Semester](ctx, s.client, httpclient.Request{Method: http.MethodGet, Path: "/semesters/current"})
}

// Create adds a semester.
func (s *SemesterService) Create(ctx context.Context, req CreateRequest) (*httpclient.Envelope[Semester], error) {
	return httpclient.Do[Semester](ctx, s.client, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/semesters",
		Body:   req,
	})
}

// Update edits a semester.
func (s *SemesterService) Update(ctx context.Context, id int, req UpdateRequest) (*httpclient.Envelope[Semester], error) {
	return httpclient.Do[Semester](ctx, s.client, httpclient.Request{
		Method: http.MethodPut,
		Path:   "/semesters/" + strconv.Itoa(id),
		Body:   req,
	})
}

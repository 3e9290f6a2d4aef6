package courses

import (
	"context"
	"net/http"
	"strconv"

	"github.com/user/labconsole/httpclient"
)

// CourseService calls the /courses endpoints.
type CourseService struct {
	client *httpclient.Client
}

// NewCourseService creates a new CourseService.
func NewCourseService(client *httpclient.Client) *CourseService {
	return &CourseService{client: client}
}

// List returns the courses matching q. q may be nil.
func (s *CourseService) List(ctx context.Context, q *Query) (*httpclient.Envelope[httpclient.List[Course]], error) {
	req := httpclient.Request{Method: http.MethodGet, Path: "/courses"}
	if q != nil {
		req.Query = q
	}
	return httpclient.Do[httpclient.List[Course]](ctx, s.client, req)
}

// Create blocks a lab for a course.
func (s *CourseService) Create(ctx context.Context, req CreateRequest) (*httpclient.Envelope[Course], error) {
	return httpclient.Do[Course](ctx, s.client, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/courses",
		Body:   req,
	})
}

// Delete removes a course. The API answers with the deleted record.
func (s *CourseService) Delete(ctx context.Context, id int) (*httpclient.Envelope[Course], error) {
	return httpclient.Do[Course](ctx, s.client, httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/courses/" + strconv.Itoa(id),
	})
}

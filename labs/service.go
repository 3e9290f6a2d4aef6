package labs

import (
	"context"
	"net/http"
	"strconv"

	"github.com/user/labconsole/httpclient"
)

// LabService calls the /labs endpoints.
type LabService struct {
	client *httpclient.Client
}

// NewLabService creates a new LabService.
func NewLabService(client *httpclient.Client) *LabService {
	return &LabService{client: client}
}

func path(id int) string {
	return "/labs/" + strconv.Itoa(id)
}

// List returns the labs matching q. q may be nil.
func (s *LabService) List(ctx context.Context, q *Query) (*httpclient.Envelope[httpclient.List[Lab]], error) {
	req := httpclient.Request{Method: http.MethodGet, Path: "/labs"}
	if q != nil {
		req.Query = q
	}
	return httpclient.Do[httpclient.List[Lab]](ctx, s.client, req)
}

// Get returns one lab.
func (s *LabService) Get(ctx context.Context, id int) (*httpclient.Envelope[Lab], error) {
	return httpclient.Do[Lab](ctx, s.client, httpclient.Request{Method: http.MethodGet, Path: path(id)})
}

// Create uploads a new lab with its image.
func (s *LabService) Create(ctx context.Context, req CreateRequest) (*httpclient.Envelope[Lab], error) {
	if err := httpclient.Validate(req); err != nil {
		return nil, err
	}

	image := req.Image
	form := buildForm(UpdateRequest{
		LabName:   &req.LabName,
		LabNumber: &req.LabNumber,
		Teacher:   &req.Teacher,
		Rules:     &req.Rules,
		Capacity:  &req.Capacity,
		Image:     &image,
	})
	return httpclient.Do[Lab](ctx, s.client, httpclient.Request{Method: http.MethodPost, Path: "/labs", Form: form})
}

// Update edits a lab.
func (s *LabService) Update(ctx context.Context, id int, req UpdateRequest) (*httpclient.Envelope[Lab], error) {
	return httpclient.Do[Lab](ctx, s.client, httpclient.Request{Method: http.MethodPut, Path: path(id), Form: buildForm(req)})
}

// Delete removes a lab. The API may answer with the deleted record or null.
func (s *LabService) Delete(ctx context.Context, id int) (*httpclient.Envelope[*Lab], error) {
	return httpclient.Do[*Lab](ctx, s.client, httpclient.Request{Method: http.MethodDelete, Path: path(id)})
}

func buildForm(req UpdateRequest) *httpclient.Multipart {
	form := httpclient.NewMultipart()
	if req.LabName != nil {
		form.Field("lab_name", *req.LabName)
	}
	if req.LabNumber != nil {
		form.Field("lab_number", *req.LabNumber)
	}
	if req.Teacher != nil {
		form.Field("teacher", *req.Teacher)
	}
	if req.Rules != nil {
		form.Field("rules", *req.Rules)
	}
	if req.Capacity != nil {
		form.Field("capacity", strconv.Itoa(*req.Capacity))
	}
	if req.Image != nil && req.Image.Content != nil {
		form.File("image", *req.Image)
	}
	return form
}

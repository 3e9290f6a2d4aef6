package equipments

import (
	"context"
	"net/http"
	"strconv"

	"github.com/user/labconsole/httpclient"
)

// EquipmentService calls the /equipments endpoints.
type EquipmentService struct {
	client *httpclient.Client
}

// NewEquipmentService creates a new EquipmentService.
func NewEquipmentService(client *httpclient.Client) *EquipmentService {
	return &EquipmentService{client: client}
}

func path(id int) string {
	return "/equipments/" + strconv.Itoa(id)
}

// List returns the equipment matching q. q may be nil.
func (s *EquipmentService) List(ctx context.Context, q *Query) (*httpclient.Envelope[httpclient.List[Equipment]], error) {
	req := httpclient.Request{Method: http.MethodGet, Path: "/equipments"}
	if q != nil {
		req.Query = q
	}
	return httpclient.Do[httpclient.List[Equipment]](ctx, s.client, req)
}

// Get returns one instrument.
func (s *EquipmentService) Get(ctx context.Context, id int) (*httpclient.Envelope[Equipment], error) {
	return httpclient.Do[Equipment](ctx, s.client, httpclient.Request{Method: http.MethodGet, Path: path(id)})
}

// Create registers an instrument.
func (s *EquipmentService) Create(ctx context.Context, req CreateRequest) (*httpclient.Envelope[Equipment], error) {
	return httpclient.Do[Equipment](ctx, s.client, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/equipments",
		Body:   req,
	})
}

// Update patches an instrument.
func (s *EquipmentService) Update(ctx context.Context, id int, req UpdateRequest) (*httpclient.Envelope[Equipment], error) {
	return httpclient.Do[Equipment](ctx, s.client, httpclient.Request{
		Method: http.MethodPatch,
		Path:   path(id),
		Body:   req,
	})
}

// Delete removes an instrument.
func (s *EquipmentService) Delete(ctx context.Context, id int) (*httpclient.Envelope[any], error) {
	return httpclient.Do[any](ctx, s.client, httpclient.Request{Method: http.MethodDelete, Path: path(id)})
}

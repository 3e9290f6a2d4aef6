package reservations

import (
	"context"
	"net/http"
	"strconv"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/httpclient"
)

// ReservationService calls the /reservations endpoints.
type ReservationService struct {
	client *httpclient.Client
}

// NewReservationService creates a new ReservationService.
func NewReservationService(client *httpclient.Client) *ReservationService {
	return &ReservationService{client: client}
}

func path(id int) string {
	return "/reservations/" + strconv.Itoa(id)
}

// List returns the reservations matching q. q may be nil.
func (s *ReservationService) List(ctx context.Context, q *Query) (*httpclient.Envelope[httpclient.List[Reservation]], error) {
	req := httpclient.Request{Method: http.MethodGet, Path: "/reservations"}
	if q != nil {
		req.Query = q
	}
	return httpclient.Do[httpclient.List[Reservation]](ctx, s.client, req)
}

// Get returns one reservation.
func (s *ReservationService) Get(ctx context.Context, id int) (*httpclient.Envelope[Reservation], error) {
	return httpclient.Do[Reservation](ctx, s.client, httpclient.Request{Method: http.MethodGet, Path: path(id)})
}

// Create books a lab.
func (s *ReservationService) Create(ctx context.Context, req CreateRequest) (*httpclient.Envelope[Reservation], error) {
	return httpclient.Do[Reservation](ctx, s.client, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/reservations",
		Body:   req,
	})
}

// Update edits a booking.
func (s *ReservationService) Update(ctx context.Context, id int, req UpdateRequest) (*httpclient.Envelope[Reservation], error) {
	return httpclient.Do[Reservation](ctx, s.client, httpclient.Request{
		Method: http.MethodPut,
		Path:   path(id),
		Body:   req,
	})
}

// Cancel cancels a booking. The API answers with the cancelled record.
func (s *ReservationService) Cancel(ctx context.Context, id int) (*httpclient.Envelope[Reservation], error) {
	return httpclient.Do[Reservation](ctx, s.client, httpclient.Request{Method: http.MethodDelete, Path: path(id)})
}

// UploadPhotos attaches photos to a booking, each sent as a `photos` part.
func (s *ReservationService) UploadPhotos(ctx context.Context, id int, photos []httpclient.Upload) (*httpclient.Envelope[UploadedPhotos], error) {
	if len(photos) == 0 {
		return nil, apperror.NewValidationError("photos is required", nil)
	}
	form := httpclient.NewMultipart()
	for _, p := range photos {
		form.File("photos", p)
	}
	return httpclient.Do[UploadedPhotos](ctx, s.client, httpclient.Request{
		Method: http.MethodPost,
		Path:   path(id) + "/photos",
		Form:   form,
	})
}

// Package export downloads reservation reports: a spreadsheet for
// archiving, or the same rows as JSON for scripting.
package export

import (
	"context"
	"net/http"

	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/reservations"
)

// DefaultFilename names a spreadsheet the server did not name.
const DefaultFilename = "reservations.xlsx"

// Query filters the export. It accepts the reservation list filters plus
// the output format.
type Query struct {
	reservations.Query
	Format string `url:"format,omitempty"`
}

// ExportService calls /export/reservations.
type ExportService struct {
	client *httpclient.Client
}

// NewExportService creates a new ExportService.
func NewExportService(client *httpclient.Client) *ExportService {
	return &ExportService{client: client}
}

// Reservations downloads the spreadsheet. q may be nil.
func (s *ExportService) Reservations(ctx context.Context, q *reservations.Query) (*httpclient.Attachment, error) {
	query := Query{}
	if q != nil {
		query.Query = *q
	}
	att, err := s.client.Download(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/export/reservations",
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	if att.Filename == "" {
		att.Filename = DefaultFilename
	}
	return att, nil
}

// ReservationsJSON fetches the export rows as structured data. q may be nil.
func (s *ExportService) ReservationsJSON(ctx context.Context, q *reservations.Query) (*httpclient.Envelope[httpclient.List[reservations.Reservation]], error) {
	query := Query{Format: "json"}
	if q != nil {
		query.Query = *q
	}
	return httpclient.Do[httpclient.List[reservations.Reservation]](ctx, s.client, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/export/reservations",
		Query:  query,
	})
}

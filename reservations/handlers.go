package reservations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/respond"
)

// Handlers serves the reservation screens.
type Handlers struct {
	service *ReservationService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *ReservationService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the screens on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleGet())
	r.Put("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleCancel())
	r.Post("/{id}/photos", h.HandleUploadPhotos())
}

type listPage struct {
	Reservations httpclient.List[Reservation] `json:"reservations"`
	TimeSlots    []Option[TimeSlot]           `json:"time_slots"`
	Statuses     []Option[Status]             `json:"statuses"`
}

// ParseQuery reads the list filters from the console request's query string.
func ParseQuery(r *http.Request) (*Query, error) {
	q := &Query{
		StartDate:          respond.QueryString(r, "start_date"),
		EndDate:            respond.QueryString(r, "end_date"),
		CreatorAccount:     respond.QueryString(r, "creator_account"),
		ParticipantAccount: respond.QueryString(r, "participant_account"),
	}
	var err error
	if q.RoomID, err = respond.QueryInt(r, "room_id"); err != nil {
		return nil, err
	}
	if q.UserID, err = respond.QueryInt(r, "user_id"); err != nil {
		return nil, err
	}
	if v := respond.QueryString(r, "time_slot"); v != nil {
		slot := TimeSlot(*v)
		q.TimeSlot = &slot
	}
	if v := respond.QueryString(r, "status"); v != nil {
		status := Status(*v)
		q.Status = &status
	}
	return q, nil
}

func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := ParseQuery(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.List(r.Context(), q)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		list := env.Data
		if list.Pagination == nil {
			list.Pagination = env.Pagination
		}
		respond.JSON(w, r, http.StatusOK, listPage{Reservations: list, TimeSlots: TimeSlots, Statuses: Statuses})
	}
}

func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IntParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
	}
}

func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Create(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, env.Data)
	}
}

func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IntParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		var req UpdateRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
	}
}

func (h *Handlers) HandleCancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IntParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.Cancel(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, env.Data)
	}
}

// HandleUploadPhotos forwards the `photos` files of a multipart request.
func (h *Handlers) HandleUploadPhotos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IntParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		cleanup, err := respond.ParseMultipart(r)
		defer cleanup()
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		uploads, closeAll, err := respond.Uploads(r, "photos")
		defer closeAll()
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		env, err := h.service.UploadPhotos(r.Context(), id, uploads)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, r, http.StatusCreated, env.Data)
	}
}

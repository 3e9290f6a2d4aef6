// Package reservations wraps the reservation endpoints: listing and
// inspecting bookings, creating and editing them on behalf of users,
// cancelling, and attaching photos taken during a session.
package reservations

// TimeSlot is one of the four bookable periods of a day.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotNoon      TimeSlot = "noon"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// Option is a value with its display label.
type Option[T ~string] struct {
	Value T      `json:"value"`
	Label string `json:"label"`
}

// TimeSlots lists the slots in the order of the day.
var TimeSlots = []Option[TimeSlot]{
	{SlotMorning, "09:00-10:30"},
	{SlotNoon, "10:30-12:00"},
	{SlotAfternoon, "13:00-14:30"},
	{SlotEvening, "14:30-16:00"},
}

// Label returns the slot's clock range. Unknown slots are shown as is and
// the empty slot as a dash.
func (s TimeSlot) Label() string {
	if s == "" {
		return "—"
	}
	for _, o := range TimeSlots {
		if o.Value == s {
			return o.Label
		}
	}
	return string(s)
}

// Status is a reservation's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusViolated   Status = "violated"
	StatusRepaired   Status = "repaired"
)

// StatusMeta is how a status is displayed. Tone is one of "", "success",
// "warning", "danger" or "info".
type StatusMeta struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

var statusMeta = map[Status]StatusMeta{
	StatusPending:    {"Upcoming", "warning"},
	StatusInProgress: {"In progress", "success"},
	StatusCompleted:  {"Completed", "info"},
	StatusCancelled:  {"Cancelled", ""},
	StatusViolated:   {"Violated", "danger"},
	StatusRepaired:   {"Remedied", "info"},
}

// Statuses lists every status with its label.
var Statuses = []Option[Status]{
	{StatusPending, statusMeta[StatusPending].Label},
	{StatusInProgress, statusMeta[StatusInProgress].Label},
	{StatusCompleted, statusMeta[StatusCompleted].Label},
	{StatusCancelled, statusMeta[StatusCancelled].Label},
	{StatusViolated, statusMeta[StatusViolated].Label},
	{StatusRepaired, statusMeta[StatusRepaired].Label},
}

// Meta returns the display metadata of s; unknown statuses use their raw
// value as label.
func (s Status) Meta() StatusMeta {
	if m, ok := statusMeta[s]; ok {
		return m
	}
	return StatusMeta{Label: string(s)}
}

// Participant is a user taking part in a reservation.
type Participant struct {
	UserID  int     `json:"user_id"`
	Account *string `json:"account,omitempty"`
	Name    string  `json:"name"`
	Role    string  `json:"role"`
}

// Reservation is a booking of a lab for one time slot.
type Reservation struct {
	ID               int                 `json:"id"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
	DeletedAt        *string             `json:"deleted_at"`
	CreatorID        int                 `json:"creator_id"`
	CreatorAccount   *string             `json:"creator_account,omitempty"`
	CreatorName      *string             `json:"creator_name,omitempty"`
	Purpose          string              `json:"purpose"`
	Date             string              `json:"date"`
	TimeSlot         TimeSlot            `json:"time_slot"`
	RoomID           int                 `json:"room_id"`
	Status           Status              `json:"status"`
	PhotoURLs        []string            `json:"photo_urls,omitempty"`
	PhotosByCategory map[string][]string `json:"photos_by_category,omitempty"`
	Participants     []Participant       `json:"participants"`
	CanceledAt       *string             `json:"canceled_at,omitempty"`
}

// Query filters the reservation list and the export.
type Query struct {
	StartDate          *string   `url:"start_date,omitempty"`
	EndDate            *string   `url:"end_date,omitempty"`
	TimeSlot           *TimeSlot `url:"time_slot,omitempty"`
	RoomID             *int      `url:"room_id,omitempty"`
	CreatorAccount     *string   `url:"creator_account,omitempty"`
	ParticipantAccount *string   `url:"participant_account,omitempty"`
	UserID             *int      `url:"user_id,omitempty"`
	Status             *Status   `url:"status,omitempty"`
}

// CreateRequest books a lab.
type CreateRequest struct {
	Purpose             string   `json:"purpose" validate:"required"`
	Date                string   `json:"date" validate:"required"`
	TimeSlot            TimeSlot `json:"time_slot" validate:"required,oneof=morning noon afternoon evening"`
	RoomID              int      `json:"room_id" validate:"required"`
	ParticipantAccounts []string `json:"participant_accounts"`
}

// UpdateRequest edits a booking. Nil fields are left unchanged.
type UpdateRequest struct {
	Purpose             *string   `json:"purpose,omitempty"`
	Date                *string   `json:"date,omitempty"`
	TimeSlot            *TimeSlot `json:"time_slot,omitempty" validate:"omitempty,oneof=morning noon afternoon evening"`
	RoomID              *int      `json:"room_id,omitempty"`
	ParticipantAccounts []string  `json:"participant_accounts,omitempty"`
}

// UploadedPhotos is the `data` of a photo upload.
type UploadedPhotos struct {
	UploadedURLs []string `json:"uploaded_urls"`
}

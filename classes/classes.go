package classes

// Type is a class discipline.
type Type string

const (
	TypeYoga     Type = "yoga"
	TypePilates  Type = "pilates"
	TypeSpinning Type = "spinning"
	TypeCrossfit Type = "crossfit"
	TypeZumba    Type = "zumba"
	TypeHIIT     Type = "hiit"
	TypeBoxing   Type = "boxing"
	TypeOther    Type = "other"
)

// Status is a class's scheduling state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// BookingStatus is a booking's state.
type BookingStatus string

const (
	BookingBooked   BookingStatus = "booked"
	BookingAttended BookingStatus = "attended"
	BookingNoShow   BookingStatus = "no_show"
	BookingCanceled BookingStatus = "canceled"
)

// Class is a scheduled gym class.
type Class struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	TrainerID       string    `json:"trainer_id,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Type            Type      `json:"type"`
	MaxCapacity     int       `json:"max_capacity"`
	DurationMinutes int       `json:"duration_minutes"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	IsRecurring     bool      `json:"is_recurring"`
	Status          Status    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	Bookings        []Booking `json:"bookings,omitempty"`
}

// Booking links a member to a class.
type Booking struct {
	ID                 string        `json:"id"`
	ClassID            string        `json:"class_id"`
	MemberID           string        `json:"member_id"`
	Status             BookingStatus `json:"status"`
	BookedAt           string        `json:"booked_at"`
	AttendedAt         string        `json:"attended_at,omitempty"`
	CanceledAt         string        `json:"canceled_at,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
}

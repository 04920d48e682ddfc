package members

// Status is a member's membership lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusFrozen    Status = "frozen"
	StatusSuspended Status = "suspended"
)

// Gender values accepted by the API.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// PaymentMethod values accepted for membership purchases.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentOnline   PaymentMethod = "online"
)

// Member is a gym member record as returned by the API.
type Member struct {
	ID                  string `json:"id"`
	TenantID            string `json:"tenant_id"`
	MembershipPlanID    string `json:"membership_plan_id,omitempty"`
	MemberNumber        string `json:"member_number"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	FullName            string `json:"full_name"`
	Email               string `json:"email,omitempty"`
	Phone               string `json:"phone"`
	DateOfBirth         string `json:"date_of_birth,omitempty"`
	Gender              Gender `json:"gender,omitempty"`
	Address             string `json:"address,omitempty"`
	EmergencyContact    string `json:"emergency_contact,omitempty"`
	MedicalNotes        string `json:"medical_notes,omitempty"`
	Status              Status `json:"status"`
	MembershipStartDate string `json:"membership_start_date,omitempty"`
	MembershipEndDate   string `json:"membership_end_date,omitempty"`
	FrozenUntil         string `json:"frozen_until,omitempty"`
	QRCode              string `json:"qr_code"`
	CreatedAt           string `json:"created_at,omitempty"`
	UpdatedAt           string `json:"updated_at,omitempty"`
}

// Transaction is a membership purchase record. It is returned from a
// purchase and otherwise lives server-side; the client only tracks its
// resource kind for cache invalidation.
type Transaction struct {
	ID                string        `json:"id"`
	TenantID          string        `json:"tenant_id"`
	MemberID          string        `json:"member_id"`
	MembershipPlanID  string        `json:"membership_plan_id"`
	TransactionNumber string        `json:"transaction_number"`
	Amount            float64       `json:"amount"`
	Type              string        `json:"type"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	Status            string        `json:"status"`
	StartDate         string        `json:"start_date"`
	EndDate           string        `json:"end_date"`
	Notes             string        `json:"notes,omitempty"`
}

// Counts is the aggregate returned by the member stats endpoint.
type Counts struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
	Frozen  int `json:"frozen"`
}

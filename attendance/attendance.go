package attendance

// CheckInMethod records how a member was checked in.
type CheckInMethod string

const (
	MethodQRCode CheckInMethod = "qr_code"
	MethodManual CheckInMethod = "manual"
	MethodCard   CheckInMethod = "card"
)

// Record is one attendance entry: a check-in, optionally closed by a
// check-out.
type Record struct {
	ID            string        `json:"id"`
	TenantID      string        `json:"tenant_id"`
	MemberID      string        `json:"member_id"`
	CheckedInBy   string        `json:"checked_in_by,omitempty"`
	Date          string        `json:"date"`
	CheckInTime   string        `json:"check_in_time"`
	CheckOutTime  string        `json:"check_out_time,omitempty"`
	CheckInMethod CheckInMethod `json:"check_in_method"`
	Notes         string        `json:"notes,omitempty"`
}

// DailyStats is the summary widget's payload. A zero value is the declared
// degraded state when the fetch fails.
type DailyStats struct {
	TotalCheckins int `json:"total_checkins"`
	StillInside   int `json:"still_inside"`
	CheckedOut    int `json:"checked_out"`
}

// MemberStats aggregates one member's attendance history.
type MemberStats struct {
	TotalVisits int    `json:"total_visits"`
	ThisMonth   int    `json:"this_month"`
	LastVisit   string `json:"last_visit,omitempty"`
}

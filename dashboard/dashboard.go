package dashboard

// Stats is the dashboard landing aggregate.
type Stats struct {
	Members struct {
		Total        int `json:"total"`
		Active       int `json:"active"`
		NewThisMonth int `json:"new_this_month"`
		ExpiringSoon int `json:"expiring_soon"`
	} `json:"members"`
	Attendance struct {
		Today int `json:"today"`
	} `json:"attendance"`
	Revenue struct {
		ThisMonth float64 `json:"this_month"`
	} `json:"revenue"`
	Subscription struct {
		Plan    string `json:"plan"`
		Status  string `json:"status"`
		EndsAt  string `json:"ends_at,omitempty"`
		IsTrial bool   `json:"is_trial"`
	} `json:"subscription"`
}

// RevenueData is one revenue breakdown over a period.
type RevenueData struct {
	Period string               `json:"period"`
	Data   []map[string]float64 `json:"data"`
	Total  float64              `json:"total"`
}

// Trends holds attendance trend series for the dashboard charts.
type Trends struct {
	DailyTrends []struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	} `json:"daily_trends"`
	PeakHours []struct {
		Hour  int `json:"hour"`
		Count int `json:"count"`
	} `json:"peak_hours"`
}

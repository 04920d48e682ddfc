package plans

// BillingPeriod is a plan's billing cadence.
type BillingPeriod string

const (
	BillingMonthly   BillingPeriod = "monthly"
	BillingQuarterly BillingPeriod = "quarterly"
	BillingYearly    BillingPeriod = "yearly"
)

// MembershipPlan is a purchasable membership tier.
type MembershipPlan struct {
	ID                       string        `json:"id"`
	TenantID                 string        `json:"tenant_id"`
	Name                     string        `json:"name"`
	Description              string        `json:"description,omitempty"`
	Price                    float64       `json:"price"`
	BillingPeriod            BillingPeriod `json:"billing_period"`
	DurationDays             int           `json:"duration_days"`
	IncludesClasses          bool          `json:"includes_classes"`
	ClassCredits             int           `json:"class_credits,omitempty"`
	IncludesPersonalTraining bool          `json:"includes_personal_training"`
	IsActive                 bool          `json:"is_active"`
	CreatedAt                string        `json:"created_at,omitempty"`
	UpdatedAt                string        `json:"updated_at,omitempty"`
}

package session

// RoleType represents a staff user's role within a gym.
type RoleType string

const (
	RoleOwner   RoleType = "owner"   // Gym owner, full administrative access
	RoleStaff   RoleType = "staff"   // Front-desk staff, day-to-day operations
	RoleTrainer RoleType = "trainer" // Trainer, class and attendance access
)

// SubscriptionPlan is the gym's subscription tier on the platform.
type SubscriptionPlan string

const (
	PlanStarter SubscriptionPlan = "starter"
	PlanPro     SubscriptionPlan = "pro"
)

// SubscriptionStatus is the gym's subscription lifecycle state.
type SubscriptionStatus string

const (
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// Tenant is the gym organization owning a set of members, staff and classes.
// Every resource returned by the API is implicitly scoped to one tenant
// server-side; the client only ever sees the tenant as a summary on the
// authenticated user.
type Tenant struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Slug               string             `json:"slug"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone,omitempty"`
	Address            string             `json:"address,omitempty"`
	SubscriptionPlan   SubscriptionPlan   `json:"subscription_plan"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	TrialEndsAt        string             `json:"trial_ends_at,omitempty"`
	MaxMembers         int                `json:"max_members"`
	MaxTrainers        int                `json:"max_trainers"`
	MaxClasses         int                `json:"max_classes"`
}

// User is a staff account (owner, staff or trainer) on a gym. It doubles as
// the identity snapshot held by the session store: informational only, never
// consulted for authorization decisions, which are server-enforced.
type User struct {
	ID              string   `json:"id"`
	TenantID        string   `json:"tenant_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Role            RoleType `json:"role"`
	IsActive        bool     `json:"is_active"`
	EmailVerifiedAt string   `json:"email_verified_at,omitempty"`
	Tenant          Tenant   `json:"tenant"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
}

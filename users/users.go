package users

import "github.com/jrsteele09/go-gym-console/session"

// The identity snapshot types are owned by the session package, which holds
// them as the authenticated user's record; they are aliased here so the staff
// service keeps its natural vocabulary.

// RoleType represents a staff user's role within a gym.
type RoleType = session.RoleType

const (
	RoleOwner   = session.RoleOwner   // Gym owner, full administrative access
	RoleStaff   = session.RoleStaff   // Front-desk staff, day-to-day operations
	RoleTrainer = session.RoleTrainer // Trainer, class and attendance access
)

// SubscriptionPlan is the gym's subscription tier on the platform.
type SubscriptionPlan = session.SubscriptionPlan

const (
	PlanStarter = session.PlanStarter
	PlanPro     = session.PlanPro
)

// SubscriptionStatus is the gym's subscription lifecycle state.
type SubscriptionStatus = session.SubscriptionStatus

const (
	SubscriptionTrial    = session.SubscriptionTrial
	SubscriptionActive   = session.SubscriptionActive
	SubscriptionPastDue  = session.SubscriptionPastDue
	SubscriptionCanceled = session.SubscriptionCanceled
	SubscriptionExpired  = session.SubscriptionExpired
)

// Tenant is the gym organization owning a set of members, staff and classes.
// Every resource returned by the API is implicitly scoped to one tenant
// server-side; the client only ever sees the tenant as a summary on the
// authenticated user.
type Tenant = session.Tenant

// User is a staff account (owner, staff or trainer) on a gym. It doubles as
// the identity snapshot held by the session store: informational only, never
// consulted for authorization decisions, which are server-enforced.
type User = session.User

// ValidRole reports whether r is one of the roles the API accepts.
func ValidRole(r RoleType) bool {
	switch r {
	case RoleOwner, RoleStaff, RoleTrainer:
		return true
	}
	return false
}

package members

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/viewstate"
	"github.com/pkg/errors"
)

// Kinds invalidated by member writes. A purchase also touches the
// transactions kind even though no screen in this layer reads it directly.
var (
	writeAffects    = []viewstate.Kind{viewstate.KindMembers}
	purchaseAffects = []viewstate.Kind{viewstate.KindMembers, viewstate.KindMembershipTransactions}
)

// Filter narrows member list reads. Zero values mean "no filter" and do not
// participate in the cache key.
type Filter struct {
	Search string
	Status Status
}

func (f Filter) params() map[string]string {
	return map[string]string{
		"search": f.Search,
		"status": string(f.Status),
	}
}

// CreateParams are the fields for member creation. First name, last name
// and phone are required; everything else is optional.
type CreateParams struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email,omitempty"`
	DateOfBirth      string `json:"date_of_birth,omitempty"`
	Gender           Gender `json:"gender,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	MedicalNotes     string `json:"medical_notes,omitempty"`
}

func (p CreateParams) validate() error {
	fields := map[string][]string{}
	if strings.TrimSpace(p.FirstName) == "" {
		fields["first_name"] = []string{"first name is required"}
	}
	if strings.TrimSpace(p.LastName) == "" {
		fields["last_name"] = []string{"last name is required"}
	}
	if strings.TrimSpace(p.Phone) == "" {
		fields["phone"] = []string{"phone is required"}
	}
	if len(fields) > 0 {
		return &transport.Error{Kind: transport.KindValidation, Message: "missing required member fields", Fields: fields}
	}
	return nil
}

// UpdateParams are the optional fields for a member update; nil fields are
// left untouched server-side.
type UpdateParams struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Email            *string `json:"email,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	Gender           *Gender `json:"gender,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	MedicalNotes     *string `json:"medical_notes,omitempty"`
	Status           *Status `json:"status,omitempty"`
}

// PurchaseParams describe a membership purchase for a member.
type PurchaseParams struct {
	MembershipPlanID string        `json:"membership_plan_id"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	StartDate        string        `json:"start_date,omitempty"`
	Notes            string        `json:"notes,omitempty"`
}

func (p PurchaseParams) validate() error {
	fields := map[string][]string{}
	if p.MembershipPlanID == "" {
		fields["membership_plan_id"] = []string{"membership plan is required"}
	}
	if p.PaymentMethod == "" {
		fields["payment_method"] = []string{"payment method is required"}
	}
	if len(fields) > 0 {
		return &transport.Error{Kind: transport.KindValidation, Message: "missing required purchase fields", Fields: fields}
	}
	return nil
}

// Service exposes the member operations of the API. List reads go through
// the view-state cache; writes invalidate the affected kinds on success
// only, so a failed write leaves cached reads exactly as they were.
type Service struct {
	api   *transport.Client
	cache *viewstate.Cache
}

// NewService creates a member service.
func NewService(api *transport.Client, cache *viewstate.Cache) (*Service, error) {
	if api == nil {
		return nil, errors.New("[members.NewService] transport is required")
	}
	if cache == nil {
		return nil, errors.New("[members.NewService] cache is required")
	}
	return &Service{api: api, cache: cache}, nil
}

// List returns members matching the filter, served from cache when fresh.
func (s *Service) List(ctx context.Context, filter Filter) ([]Member, error) {
	query := viewstate.NewQuery(viewstate.KindMembers, filter.params())
	return viewstate.Read(ctx, s.cache, query, func(ctx context.Context) ([]Member, error) {
		var env struct {
			Data []Member `json:"data"`
		}
		if err := s.api.Get(ctx, "/members", transport.Query(filter.params()), &env); err != nil {
			return nil, err
		}
		return env.Data, nil
	})
}

// Get fetches a single member by ID, bypassing the cache.
func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	var member Member
	if err := s.api.Get(ctx, "/members/"+id, nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Create registers a new member and invalidates the members kind.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Member, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var member Member
	if err := s.api.Post(ctx, "/members", params, &member); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &member, nil
}

// Update modifies a member and invalidates the members kind.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Member, error) {
	var member Member
	if err := s.api.Put(ctx, "/members/"+id, params, &member); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &member, nil
}

// Delete removes a member and invalidates the members kind.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/members/"+id); err != nil {
		return err
	}
	s.cache.Invalidate(writeAffects...)
	return nil
}

// PurchaseMembership assigns a plan to a member. On success both the
// members and membership-transactions kinds are invalidated.
func (s *Service) PurchaseMembership(ctx context.Context, memberID string, params PurchaseParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var tx Transaction
	if err := s.api.Post(ctx, "/members/"+memberID+"/purchase-membership", params, &tx); err != nil {
		return nil, err
	}
	s.cache.Invalidate(purchaseAffects...)
	return &tx, nil
}

// Stats returns the member count aggregates.
func (s *Service) Stats(ctx context.Context) (*Counts, error) {
	var counts Counts
	if err := s.api.Get(ctx, "/members/stats", nil, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

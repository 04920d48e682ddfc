package plans

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/viewstate"
	"github.com/pkg/errors"
)

var writeAffects = []viewstate.Kind{viewstate.KindMembershipPlans}

// Params are the writable fields of a membership plan.
type Params struct {
	Name                     string        `json:"name"`
	Description              string        `json:"description,omitempty"`
	Price                    float64       `json:"price"`
	BillingPeriod            BillingPeriod `json:"billing_period"`
	DurationDays             int           `json:"duration_days"`
	IncludesClasses          bool          `json:"includes_classes"`
	ClassCredits             int           `json:"class_credits,omitempty"`
	IncludesPersonalTraining bool          `json:"includes_personal_training"`
	IsActive                 bool          `json:"is_active"`
}

func (p Params) validate() error {
	fields := map[string][]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = []string{"name is required"}
	}
	if p.BillingPeriod == "" {
		fields["billing_period"] = []string{"billing period is required"}
	}
	if len(fields) > 0 {
		return &transport.Error{Kind: transport.KindValidation, Message: "missing required plan fields", Fields: fields}
	}
	return nil
}

// Service exposes membership plan operations.
type Service struct {
	api   *transport.Client
	cache *viewstate.Cache
}

func NewService(api *transport.Client, cache *viewstate.Cache) (*Service, error) {
	if api == nil {
		return nil, errors.New("[plans.NewService] transport is required")
	}
	if cache == nil {
		return nil, errors.New("[plans.NewService] cache is required")
	}
	return &Service{api: api, cache: cache}, nil
}

// List returns membership plans, optionally only the active ones, served
// from cache when fresh.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]MembershipPlan, error) {
	params := map[string]string{}
	if activeOnly {
		params["active_only"] = "true"
	}
	query := viewstate.NewQuery(viewstate.KindMembershipPlans, params)
	return viewstate.Read(ctx, s.cache, query, func(ctx context.Context) ([]MembershipPlan, error) {
		var env struct {
			Data []MembershipPlan `json:"data"`
		}
		if err := s.api.Get(ctx, "/membership-plans", transport.Query(params), &env); err != nil {
			return nil, err
		}
		return env.Data, nil
	})
}

// Get fetches a single plan by ID, bypassing the cache.
func (s *Service) Get(ctx context.Context, id string) (*MembershipPlan, error) {
	var plan MembershipPlan
	if err := s.api.Get(ctx, "/membership-plans/"+id, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create adds a plan and invalidates the membership-plans kind.
func (s *Service) Create(ctx context.Context, params Params) (*MembershipPlan, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var plan MembershipPlan
	if err := s.api.Post(ctx, "/membership-plans", params, &plan); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &plan, nil
}

// Update modifies a plan and invalidates the membership-plans kind.
func (s *Service) Update(ctx context.Context, id string, params Params) (*MembershipPlan, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var plan MembershipPlan
	if err := s.api.Put(ctx, "/membership-plans/"+id, params, &plan); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &plan, nil
}

// Delete removes a plan and invalidates the membership-plans kind.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/membership-plans/"+id); err != nil {
		return err
	}
	s.cache.Invalidate(writeAffects...)
	return nil
}

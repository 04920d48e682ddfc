package classes

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/viewstate"
	"github.com/pkg/errors"
)

var writeAffects = []viewstate.Kind{viewstate.KindClasses}

// Filter narrows class list reads.
type Filter struct {
	Status   Status
	FromDate string
}

func (f Filter) params() map[string]string {
	return map[string]string{
		"status":    string(f.Status),
		"from_date": f.FromDate,
	}
}

// Params are the writable fields of a class.
type Params struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Type            Type   `json:"type"`
	TrainerID       string `json:"trainer_id,omitempty"`
	MaxCapacity     int    `json:"max_capacity"`
	DurationMinutes int    `json:"duration_minutes"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Notes           string `json:"notes,omitempty"`
}

func (p Params) validate() error {
	fields := map[string][]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = []string{"name is required"}
	}
	if p.Type == "" {
		fields["type"] = []string{"type is required"}
	}
	if p.Date == "" {
		fields["date"] = []string{"date is required"}
	}
	if len(fields) > 0 {
		return &transport.Error{Kind: transport.KindValidation, Message: "missing required class fields", Fields: fields}
	}
	return nil
}

// Service exposes the class scheduling operations of the API.
type Service struct {
	api   *transport.Client
	cache *viewstate.Cache
}

func NewService(api *transport.Client, cache *viewstate.Cache) (*Service, error) {
	if api == nil {
		return nil, errors.New("[classes.NewService] transport is required")
	}
	if cache == nil {
		return nil, errors.New("[classes.NewService] cache is required")
	}
	return &Service{api: api, cache: cache}, nil
}

// List returns classes matching the filter, served from cache when fresh.
func (s *Service) List(ctx context.Context, filter Filter) ([]Class, error) {
	query := viewstate.NewQuery(viewstate.KindClasses, filter.params())
	return viewstate.Read(ctx, s.cache, query, func(ctx context.Context) ([]Class, error) {
		var env struct {
			Data []Class `json:"data"`
		}
		if err := s.api.Get(ctx, "/classes", transport.Query(filter.params()), &env); err != nil {
			return nil, err
		}
		return env.Data, nil
	})
}

// Get fetches a single class by ID, bypassing the cache.
func (s *Service) Get(ctx context.Context, id string) (*Class, error) {
	var class Class
	if err := s.api.Get(ctx, "/classes/"+id, nil, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create schedules a class and invalidates the classes kind.
func (s *Service) Create(ctx context.Context, params Params) (*Class, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var class Class
	if err := s.api.Post(ctx, "/classes", params, &class); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &class, nil
}

// Update modifies a class and invalidates the classes kind.
func (s *Service) Update(ctx context.Context, id string, params Params) (*Class, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var class Class
	if err := s.api.Put(ctx, "/classes/"+id, params, &class); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &class, nil
}

// Delete cancels a class and invalidates the classes kind.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/classes/"+id); err != nil {
		return err
	}
	s.cache.Invalidate(writeAffects...)
	return nil
}

// Book reserves a spot in a class for a member and invalidates the classes
// kind (bookings render inside the class list).
func (s *Service) Book(ctx context.Context, classID, memberID string) (*Booking, error) {
	if memberID == "" {
		return nil, &transport.Error{Kind: transport.KindValidation, Message: "member is required",
			Fields: map[string][]string{"member_id": {"member is required"}}}
	}
	var booking Booking
	if err := s.api.Post(ctx, "/classes/"+classID+"/book", map[string]string{"member_id": memberID}, &booking); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &booking, nil
}

package users

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/viewstate"
	"github.com/pkg/errors"
)

var writeAffects = []viewstate.Kind{viewstate.KindUsers}

// InviteParams describe a staff or trainer invitation.
type InviteParams struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone,omitempty"`
	Role  RoleType `json:"role"`
}

func (p InviteParams) validate() error {
	fields := map[string][]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = []string{"name is required"}
	}
	if strings.TrimSpace(p.Email) == "" {
		fields["email"] = []string{"email is required"}
	}
	if !ValidRole(p.Role) {
		fields["role"] = []string{"role must be owner, staff or trainer"}
	}
	if len(fields) > 0 {
		return &transport.Error{Kind: transport.KindValidation, Message: "missing required invite fields", Fields: fields}
	}
	return nil
}

// Invitation is the result of inviting a staff user. TemporaryPassword is
// generated server-side, returned exactly once and not retrievable again:
// the caller shows it to the inviter and then lets it go. It must never be
// persisted or written to a log.
type Invitation struct {
	User              User   `json:"user"`
	TemporaryPassword string `json:"temporary_password"`
}

// UpdateParams are the optional fields for a staff user update.
type UpdateParams struct {
	Name  *string   `json:"name,omitempty"`
	Email *string   `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
	Role  *RoleType `json:"role,omitempty"`
}

// Service exposes staff administration operations.
type Service struct {
	api   *transport.Client
	cache *viewstate.Cache
}

func NewService(api *transport.Client, cache *viewstate.Cache) (*Service, error) {
	if api == nil {
		return nil, errors.New("[users.NewService] transport is required")
	}
	if cache == nil {
		return nil, errors.New("[users.NewService] cache is required")
	}
	return &Service{api: api, cache: cache}, nil
}

// List returns staff users, optionally filtered by role, served from cache
// when fresh.
func (s *Service) List(ctx context.Context, role RoleType) ([]User, error) {
	params := map[string]string{"role": string(role)}
	query := viewstate.NewQuery(viewstate.KindUsers, params)
	return viewstate.Read(ctx, s.cache, query, func(ctx context.Context) ([]User, error) {
		var env struct {
			Data []User `json:"data"`
		}
		if err := s.api.Get(ctx, "/users", transport.Query(params), &env); err != nil {
			return nil, err
		}
		return env.Data, nil
	})
}

// Invite creates a staff or trainer account. The returned one-time
// temporary password exists only in the returned value.
func (s *Service) Invite(ctx context.Context, params InviteParams) (*Invitation, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var invitation Invitation
	if err := s.api.Post(ctx, "/users/invite", params, &invitation); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &invitation, nil
}

// Activate re-enables a deactivated staff user.
func (s *Service) Activate(ctx context.Context, id string) error {
	if err := s.api.Post(ctx, "/users/"+id+"/activate", nil, nil); err != nil {
		return err
	}
	s.cache.Invalidate(writeAffects...)
	return nil
}

// Deactivate disables a staff user without deleting the account.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if err := s.api.Post(ctx, "/users/"+id+"/deactivate", nil, nil); err != nil {
		return err
	}
	s.cache.Invalidate(writeAffects...)
	return nil
}

// Update modifies a staff user and invalidates the users kind.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*User, error) {
	var user User
	if err := s.api.Put(ctx, "/users/"+id, params, &user); err != nil {
		return nil, err
	}
	s.cache.Invalidate(writeAffects...)
	return &user, nil
}

// Delete removes a staff user and invalidates the users kind.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/users/"+id); err != nil {
		return err
	}
	s.cache.Invalidate(writeAffects...)
	return nil
}

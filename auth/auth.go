// Package auth establishes and tears down the authenticated session. Login
// and Register exchange credentials for an identity and a bearer token and
// install both in the session store as one atomic replace; Logout clears
// locally no matter what the server says.
package auth

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-gym-console/session"
	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// RegisterParams creates a new gym plus its owner account.
type RegisterParams struct {
	GymName              string `json:"gym_name"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phone                string `json:"phone,omitempty"`
}

func (p RegisterParams) validate() error {
	fields := map[string][]string{}
	if strings.TrimSpace(p.GymName) == "" {
		fields["gym_name"] = []string{"gym name is required"}
	}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = []string{"name is required"}
	}
	if strings.TrimSpace(p.Email) == "" {
		fields["email"] = []string{"email is required"}
	}
	if p.Password == "" {
		fields["password"] = []string{"password is required"}
	}
	if p.Password != p.PasswordConfirmation {
		fields["password_confirmation"] = []string{"passwords do not match"}
	}
	if len(fields) > 0 {
		return &transport.Error{Kind: transport.KindValidation, Message: "missing required registration fields", Fields: fields}
	}
	return nil
}

// authResponse is the wire shape of /login and /register.
type authResponse struct {
	Message     string     `json:"message"`
	User        users.User `json:"user"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
}

// Service exposes the authentication operations.
type Service struct {
	api  *transport.Client
	sess *session.Store
	log  zerolog.Logger
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for the best-effort logout path.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

func NewService(api *transport.Client, sess *session.Store, options ...ServiceOption) (*Service, error) {
	if api == nil {
		return nil, errors.New("[auth.NewService] transport is required")
	}
	if sess == nil {
		return nil, errors.New("[auth.NewService] session store is required")
	}
	s := &Service{api: api, sess: sess, log: zerolog.Nop()}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login exchanges email and password for a session. On success the session
// store is replaced atomically with the new identity and credential.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, error) {
	if email == "" || password == "" {
		fields := map[string][]string{}
		if email == "" {
			fields["email"] = []string{"email is required"}
		}
		if password == "" {
			fields["password"] = []string{"password is required"}
		}
		return nil, &transport.Error{Kind: transport.KindValidation, Message: "email and password are required", Fields: fields}
	}
	var resp authResponse
	if err := s.api.Post(ctx, "/login", map[string]string{"email": email, "password": password}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &transport.Error{Kind: transport.KindProtocol, Message: "login response missing access token"}
	}
	if err := s.sess.Set(resp.User, resp.AccessToken); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] session.Set")
	}
	return &resp.User, nil
}

// Register creates a gym and its owner account, then logs the owner in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*users.User, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var resp authResponse
	if err := s.api.Post(ctx, "/register", params, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &transport.Error{Kind: transport.KindProtocol, Message: "register response missing access token"}
	}
	if err := s.sess.Set(resp.User, resp.AccessToken); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] session.Set")
	}
	return &resp.User, nil
}

// Logout revokes the session server-side on a best-effort basis and always
// clears the local session. A failed remote revocation is logged, never
// surfaced: the user asked to be logged out, and locally they are.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.api.Post(ctx, "/logout", nil, nil); err != nil && !transport.IsUnauthorized(err) {
		s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
	// A 401 above has already cleared the store; Clear is idempotent.
	return s.sess.Clear()
}

// Me fetches the current identity from the server. Callers that want the
// session snapshot refreshed issue a new Set themselves; identity is never
// mutated in place.
func (s *Service) Me(ctx context.Context) (*users.User, error) {
	var user users.User
	if err := s.api.Get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

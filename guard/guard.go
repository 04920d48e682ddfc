// Package guard gates entry to protected areas on session state. The check
// is synchronous and purely local: authorization proper is server-enforced,
// the guard only prevents rendering protected views while logged out.
package guard

import (
	"context"

	"github.com/jrsteele09/go-gym-console/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrNotAuthenticated is returned by protected operations entered without a
// session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Guard gates protected operations. Before the startup Restore completes
// the store reads as empty, so the guard denies and the denied callback
// fires; a legitimate session reverses that once Restore lands. That flash
// is the accepted tradeoff, not a defect.
type Guard struct {
	sess     *session.Store
	onDenied func()
	log      zerolog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger for denied entries.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Guard) { g.log = log }
}

// New creates a guard over sess. onDenied is the redirect-to-login side
// effect, invoked on every denied entry; nil is allowed.
func New(sess *session.Store, onDenied func(), options ...Option) (*Guard, error) {
	if sess == nil {
		return nil, errors.New("[guard.New] session store is required")
	}
	g := &Guard{sess: sess, onDenied: onDenied, log: zerolog.Nop()}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Allow reports whether protected areas may render right now.
func (g *Guard) Allow() bool {
	return g.sess.IsAuthenticated()
}

// Check denies entry to a named protected area, firing the redirect
// callback, when no session is present.
func (g *Guard) Check(area string) error {
	if g.sess.IsAuthenticated() {
		return nil
	}
	g.log.Debug().Str("area", area).Msg("unauthenticated, redirecting to login")
	if g.onDenied != nil {
		g.onDenied()
	}
	return errors.Wrap(ErrNotAuthenticated, area)
}

// Protect wraps an operation so it runs only with a session present. The
// check happens at call time, not wrap time, so a login or logout between
// the two is honoured.
func (g *Guard) Protect(area string, op func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := g.Check(area); err != nil {
			return err
		}
		return op(ctx)
	}
}

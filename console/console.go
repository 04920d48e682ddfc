// Package console wires the client core into a runnable dashboard shell:
// session restore at startup, credentialled transport, per-resource
// services over the shared view-state cache, and the route guard with its
// single top-level redirect-to-login listener.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/jrsteele09/go-gym-console/attendance"
	"github.com/jrsteele09/go-gym-console/auth"
	"github.com/jrsteele09/go-gym-console/classes"
	"github.com/jrsteele09/go-gym-console/dashboard"
	"github.com/jrsteele09/go-gym-console/guard"
	"github.com/jrsteele09/go-gym-console/internal/config"
	"github.com/jrsteele09/go-gym-console/members"
	"github.com/jrsteele09/go-gym-console/plans"
	"github.com/jrsteele09/go-gym-console/session"
	"github.com/jrsteele09/go-gym-console/session/filerepo"
	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/users"
	"github.com/jrsteele09/go-gym-console/viewstate"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Console is the composition root of the dashboard client.
type Console struct {
	config config.Config
	log    zerolog.Logger
	out    io.Writer

	sess  *session.Store
	cache *viewstate.Cache
	api   *transport.Client
	guard *guard.Guard

	auth       *auth.Service
	members    *members.Service
	plans      *plans.Service
	attendance *attendance.Service
	classes    *classes.Service
	staff      *users.Service
	dashboard  *dashboard.Service
}

// Option configures a Console.
type Option func(*consoleOptions)

type consoleOptions struct {
	out         io.Writer
	sessionRepo session.Repo
	metricsReg  prometheus.Registerer
}

// WithOutput redirects command output (primarily for testing).
func WithOutput(w io.Writer) Option {
	return func(o *consoleOptions) { o.out = w }
}

// WithSessionRepo replaces the file-backed session repo (primarily for
// testing).
func WithSessionRepo(repo session.Repo) Option {
	return func(o *consoleOptions) { o.sessionRepo = repo }
}

// WithMetricsRegisterer enables transport metrics on reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *consoleOptions) { o.metricsReg = reg }
}

// New builds the console: logger, session store restored from durable
// storage, transport, cache, services and guard. Restore failures are
// logged and leave the console logged out; they never prevent startup.
func New(cfg config.Config, options ...Option) (*Console, error) {
	if cfg == nil {
		return nil, errors.New("[console.New] config is required")
	}

	opts := consoleOptions{out: os.Stdout}
	for _, opt := range options {
		opt(&opts)
	}

	log := newLogger(cfg.GetEnv())

	repo := opts.sessionRepo
	if repo == nil {
		repo = filerepo.New(cfg.GetSessionFile())
	}
	sess, err := session.NewStore(repo)
	if err != nil {
		return nil, errors.Wrap(err, "[console.New] session store")
	}

	c := &Console{
		config: cfg,
		log:    log,
		out:    opts.out,
		sess:   sess,
		cache:  viewstate.New(),
	}

	// The one top-level listener for the session-cleared event: the
	// transport only clears and classifies, navigation is decided here.
	sess.Subscribe(func(ev session.Event) {
		if !ev.Authenticated {
			fmt.Fprintln(c.out, "Signed out. Run `login <email>` to continue.")
		}
	})

	if err := sess.Restore(); err != nil {
		log.Warn().Err(err).Msg("session restore failed, starting logged out")
	}

	transportOptions := []transport.Option{
		transport.WithLogger(log),
		transport.WithRateLimit(cfg.GetRequestRate(), cfg.GetRequestBurst()),
	}
	if opts.metricsReg != nil {
		transportOptions = append(transportOptions, transport.WithMetrics(opts.metricsReg))
	}
	c.api, err = transport.New(cfg.GetAPIBaseURL(), sess, transportOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "[console.New] transport")
	}

	c.guard, err = guard.New(sess, func() {
		fmt.Fprintln(c.out, "Please log in first: login <email> <password>")
	}, guard.WithLogger(log))
	if err != nil {
		return nil, errors.Wrap(err, "[console.New] guard")
	}

	if err := c.buildServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Console) buildServices() error {
	var err error
	if c.auth, err = auth.NewService(c.api, c.sess, auth.WithLogger(c.log)); err != nil {
		return errors.Wrap(err, "[console.New] auth service")
	}
	if c.members, err = members.NewService(c.api, c.cache); err != nil {
		return errors.Wrap(err, "[console.New] members service")
	}
	if c.plans, err = plans.NewService(c.api, c.cache); err != nil {
		return errors.Wrap(err, "[console.New] plans service")
	}
	if c.attendance, err = attendance.NewService(c.api, c.cache, attendance.WithLogger(c.log)); err != nil {
		return errors.Wrap(err, "[console.New] attendance service")
	}
	if c.classes, err = classes.NewService(c.api, c.cache); err != nil {
		return errors.Wrap(err, "[console.New] classes service")
	}
	if c.staff, err = users.NewService(c.api, c.cache); err != nil {
		return errors.Wrap(err, "[console.New] staff service")
	}
	if c.dashboard, err = dashboard.NewService(c.api, c.cache); err != nil {
		return errors.Wrap(err, "[console.New] dashboard service")
	}
	return nil
}

func newLogger(env string) zerolog.Logger {
	if env == "DEV" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

package session

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// ErrNoCredential is returned by the token source when no session is active.
var ErrNoCredential = errors.New("no session credential")

// State is the persisted session record. A single record under a named key;
// absence means logged out.
type State struct {
	User          *User  `json:"user,omitempty"`
	Credential    string `json:"credential,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// Event describes a session state transition delivered to subscribers.
type Event struct {
	Authenticated bool
	User          *User
}

// Store is the single source of truth for "am I authenticated, and as whom".
// It never makes network calls. Durable-storage writes are synchronous with
// Set/Clear so the in-memory and persisted copies cannot disagree, and
// subscribers are notified before Set/Clear returns.
type Store struct {
	mu          sync.RWMutex
	state       State
	repo        Repo
	subscribers []func(Event)
}

// NewStore creates a session store backed by the given persistence repo.
func NewStore(repo Repo) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repo is required")
	}
	return &Store{repo: repo}, nil
}

// Set replaces the session atomically: the new state is persisted and then
// made visible to in-process readers. There is no partial mutation; a changed
// identity requires a fresh Set.
func (s *Store) Set(user User, credential string) error {
	if credential == "" {
		return errors.New("[Store.Set] credential is required")
	}
	s.mu.Lock()
	next := State{User: &user, Credential: credential, Authenticated: true}
	if err := s.repo.Save(next); err != nil {
		s.mu.Unlock()
		return errors.Wrap(err, "[Store.Set] repo.Save")
	}
	s.state = next
	subs := append(([]func(Event))(nil), s.subscribers...)
	s.mu.Unlock()

	notify(subs, Event{Authenticated: true, User: &user})
	return nil
}

// Clear resets the session to its empty state and erases the persisted copy.
// Clearing an already-empty session is a no-op, so concurrent 401 handlers
// may all call it safely.
func (s *Store) Clear() error {
	s.mu.Lock()
	if !s.state.Authenticated && s.state.Credential == "" && s.state.User == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.repo.Erase(); err != nil {
		s.mu.Unlock()
		return errors.Wrap(err, "[Store.Clear] repo.Erase")
	}
	s.state = State{}
	subs := append(([]func(Event))(nil), s.subscribers...)
	s.mu.Unlock()

	notify(subs, Event{})
	return nil
}

// Restore rehydrates in-memory state from the persisted copy. Intended to be
// called once at process start. A missing or unreadable record leaves the
// store empty rather than failing, so environments with no durable storage
// simply start logged out.
func (s *Store) Restore() error {
	persisted, err := s.repo.Load()
	if err != nil {
		return errors.Wrap(err, "[Store.Restore] repo.Load")
	}
	if persisted == nil {
		return nil
	}

	s.mu.Lock()
	s.state = *persisted
	subs := append(([]func(Event))(nil), s.subscribers...)
	authed := s.state.Authenticated
	user := s.state.User
	s.mu.Unlock()

	if authed {
		notify(subs, Event{Authenticated: true, User: user})
	}
	return nil
}

// IsAuthenticated reports whether a credential is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Credential != ""
}

// User returns the identity snapshot of the current session, if any.
func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return User{}, false
	}
	return *s.state.User, true
}

// Credential returns the opaque bearer token of the current session, if any.
func (s *Store) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Credential, s.state.Credential != ""
}

// Subscribe registers a listener invoked synchronously after every Set,
// Clear and authenticated Restore. Listeners must not call back into the
// store's mutators.
func (s *Store) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// TokenSource exposes the session credential as an oauth2.TokenSource for
// bearer-header attachment. Token returns ErrNoCredential when logged out;
// the credential is re-read on every call so a logout between requests is
// always observed.
func (s *Store) TokenSource() oauth2.TokenSource {
	return tokenSource{store: s}
}

type tokenSource struct {
	store *Store
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	credential, ok := ts.store.Credential()
	if !ok {
		return nil, ErrNoCredential
	}
	return &oauth2.Token{AccessToken: credential, TokenType: "Bearer"}, nil
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

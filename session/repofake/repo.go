package repofake

import (
	"sync"

	"github.com/jrsteele09/go-gym-console/session"
)

var _ session.Repo = (*Repo)(nil)

// Repo is an in-memory session repo for tests. It survives across store
// instances, which is how tests simulate a reload-and-restore cycle.
type Repo struct {
	mu     sync.Mutex
	state  *session.State
	Saves  int // Number of Save calls observed
	Erases int // Number of Erase calls observed
}

func New() *Repo {
	return &Repo{}
}

func (r *Repo) Save(state session.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := state
	r.state = &copied
	r.Saves++
	return nil
}

func (r *Repo) Load() (*session.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return nil, nil
	}
	copied := *r.state
	return &copied, nil
}

func (r *Repo) Erase() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = nil
	r.Erases++
	return nil
}

package filerepo

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-gym-console/session"
	"github.com/pkg/errors"
)

var _ session.Repo = (*Repo)(nil)

// Repo persists the session record as a single JSON file. The file carries
// the bearer credential, so it is written 0600 under a 0700 directory.
type Repo struct {
	path string
}

// New creates a file-backed session repo at path. The parent directory is
// created on the first Save, not here, so construction never fails on
// read-only filesystems.
func New(path string) *Repo {
	return &Repo{path: path}
}

func (r *Repo) Save(state session.State) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return errors.Wrap(err, "[filerepo.Save] mkdir")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "[filerepo.Save] marshal")
	}
	// Write-then-rename so a crash mid-write never leaves a torn record.
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[filerepo.Save] write")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrap(err, "[filerepo.Save] rename")
	}
	return nil
}

func (r *Repo) Load() (*session.State, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[filerepo.Load] read")
	}
	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt record is indistinguishable from no record: start
		// logged out rather than wedging every startup.
		return nil, nil
	}
	return &state, nil
}

func (r *Repo) Erase() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[filerepo.Erase] remove")
	}
	return nil
}

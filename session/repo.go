package session

// Repo defines durable storage for the single persisted session record.
type Repo interface {
	// Save writes the record, replacing any previous one.
	Save(state State) error

	// Load reads the record. A missing record returns (nil, nil); the store
	// treats that as logged out.
	Load() (*State, error)

	// Erase removes the record. Erasing an absent record is not an error.
	Erase() error
}

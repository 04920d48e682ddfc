// Package viewstate keeps fetched resource collections consistent with the
// last known-good server state. Reads are served from a per-query cache,
// concurrent reads of an equal query share one outstanding fetch, and writes
// propagate to reads by coarse per-kind invalidation: stale data may still
// be shown while a refetch is pending, but the next read for an invalidated
// kind always goes back to the server.
package viewstate

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Kind is the cache-invalidation granularity: a named category of backend
// resource.
type Kind string

const (
	KindMembers                Kind = "members"
	KindMembershipPlans        Kind = "membership-plans"
	KindMembershipTransactions Kind = "membership-transactions"
	KindAttendance             Kind = "attendance"
	KindClasses                Kind = "classes"
	KindUsers                  Kind = "users"
	KindDashboardStats         Kind = "dashboard-stats"
)

// Status is a cache entry's lifecycle state. Transitions:
// absent → pending → {ready, error}; ready → stale → pending on
// invalidation + next read; error → pending on next read.
type Status int

const (
	StatusPending Status = iota + 1
	StatusReady
	StatusError
)

// EntryInfo is a point-in-time snapshot of a cache entry, mainly for
// stale-while-revalidate rendering and tests.
type EntryInfo struct {
	Status    Status
	Stale     bool
	FetchedAt time.Time
	Err       error
}

type entry struct {
	kind      Kind
	status    Status
	stale     bool
	gen       uint64 // bumped on every invalidation of this entry
	data      any
	err       error
	fetchedAt time.Time
}

// Cache is the view-state synchronizer. Exactly one entry exists per
// distinct query; equality is structural over the filter parameters,
// independent of insertion order.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	nowTime func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Cache) { c.nowTime = nowFunc }
}

// New creates an empty cache.
func New(options ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Read returns cached data for q if a ready, non-stale entry exists;
// otherwise it dispatches fetch, records the outcome on the entry and
// returns it. Concurrent reads for an equal query while a fetch is in
// flight share that single fetch. Errors do not poison the entry: the next
// read fetches again.
func Read[T any](ctx context.Context, c *Cache, q Query, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	key := q.Key()

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{kind: q.Kind, status: StatusPending}
		c.entries[key] = e
	}
	if e.status == StatusReady && !e.stale {
		data, castOK := e.data.(T)
		c.mu.Unlock()
		if !castOK {
			return zero, errors.Errorf("[viewstate.Read] cached data for %q is not the requested type", key)
		}
		return data, nil
	}
	// A refetch is being dispatched, so the entry is pending. Stale data
	// stays on the entry and remains visible through Peek.
	e.status = StatusPending
	gen := e.gen
	c.mu.Unlock()

	fetched, err, _ := c.group.Do(key, func() (any, error) {
		return fetch(ctx)
	})

	c.mu.Lock()
	e, ok = c.entries[key]
	if !ok {
		e = &entry{kind: q.Kind}
		c.entries[key] = e
	}
	if err != nil {
		e.status = StatusError
		e.err = err
		c.mu.Unlock()
		return zero, err
	}
	e.status = StatusReady
	e.err = nil
	e.data = fetched
	e.fetchedAt = c.nowTime()
	// If the entry was invalidated while this fetch was in flight the data
	// is still worth caching, but it may predate a write: leave it stale so
	// the next read goes back to the server.
	e.stale = e.gen != gen
	c.mu.Unlock()

	result, castOK := fetched.(T)
	if !castOK {
		return zero, errors.Errorf("[viewstate.Read] fetched data for %q is not the requested type", key)
	}
	return result, nil
}

// Invalidate marks every entry of the given kinds stale and forgets any
// shared in-flight fetch for them, guaranteeing that a read issued after
// this call never observes a pre-invalidation fetch as its own. Data is not
// evicted; Peek still serves it while a refetch is pending.
func (c *Cache) Invalidate(kinds ...Kind) {
	c.mu.Lock()
	var forget []string
	for key, e := range c.entries {
		for _, k := range kinds {
			if e.kind != k {
				continue
			}
			e.stale = true
			e.gen++
			forget = append(forget, key)
			break
		}
	}
	c.mu.Unlock()

	for _, key := range forget {
		c.group.Forget(key)
	}
}

// Peek returns the last known data for q without triggering a fetch. It
// serves stale and error entries alike: this is the stale-while-revalidate
// read used to keep a view populated while Read is in flight.
func (c *Cache) Peek(q Query) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[q.Key()]
	if !ok || e.data == nil {
		return nil, false
	}
	return e.data, true
}

// Info returns the entry snapshot for q, if the entry exists.
func (c *Cache) Info(q Query) (EntryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[q.Key()]
	if !ok {
		return EntryInfo{}, false
	}
	return EntryInfo{Status: e.status, Stale: e.stale, FetchedAt: e.fetchedAt, Err: e.err}, true
}

// Len reports the number of distinct queries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

package viewstate_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-gym-console/viewstate"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestQuery_KeyEquality(t *testing.T) {
	t.Run("filter order is irrelevant", func(t *testing.T) {
		a := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"status": "active", "search": "jane"})
		b := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"search": "jane", "status": "active"})
		require.Equal(t, a.Key(), b.Key())
	})

	t.Run("empty-valued parameters are dropped", func(t *testing.T) {
		a := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"status": "active", "search": ""})
		b := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"status": "active"})
		require.Equal(t, a.Key(), b.Key())
	})

	t.Run("kind distinguishes queries", func(t *testing.T) {
		a := viewstate.NewQuery(viewstate.KindMembers, nil)
		b := viewstate.NewQuery(viewstate.KindClasses, nil)
		require.NotEqual(t, a.Key(), b.Key())
	})

	t.Run("filter value distinguishes queries", func(t *testing.T) {
		a := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"status": "active"})
		b := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"status": "frozen"})
		require.NotEqual(t, a.Key(), b.Key())
	})
}

func TestCache_ReadThrough(t *testing.T) {
	cache := viewstate.New()
	q := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"status": "active"})

	var fetches atomic.Int64
	fetch := func(ctx context.Context) ([]string, error) {
		fetches.Add(1)
		return []string{"jane", "omar"}, nil
	}

	got, err := viewstate.Read(context.Background(), cache, q, fetch)
	require.NoError(t, err)
	require.Equal(t, []string{"jane", "omar"}, got)
	require.EqualValues(t, 1, fetches.Load())

	// Equal query constructed in a different order hits the same entry.
	again := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"search": "", "status": "active"})
	got, err = viewstate.Read(context.Background(), cache, again, fetch)
	require.NoError(t, err)
	require.Equal(t, []string{"jane", "omar"}, got)
	require.EqualValues(t, 1, fetches.Load(), "ready entry must be served from cache")
	require.Equal(t, 1, cache.Len())

	info, ok := cache.Info(q)
	require.True(t, ok)
	require.Equal(t, viewstate.StatusReady, info.Status)
	require.False(t, info.Stale)
}

func TestCache_InvalidationForcesRefetch(t *testing.T) {
	cache := viewstate.New()
	q := viewstate.NewQuery(viewstate.KindMembers, nil)

	serverState := []string{"jane"}
	var fetches atomic.Int64
	fetch := func(ctx context.Context) ([]string, error) {
		fetches.Add(1)
		return append([]string(nil), serverState...), nil
	}

	got, err := viewstate.Read(context.Background(), cache, q, fetch)
	require.NoError(t, err)
	require.Equal(t, []string{"jane"}, got)

	// A members-affecting write lands server-side, then invalidates.
	serverState = append(serverState, "omar")
	cache.Invalidate(viewstate.KindMembers)

	info, ok := cache.Info(q)
	require.True(t, ok)
	require.True(t, info.Stale)

	// Stale data remains visible while the refetch would be pending.
	peeked, ok := cache.Peek(q)
	require.True(t, ok)
	require.Equal(t, []string{"jane"}, peeked)

	got, err = viewstate.Read(context.Background(), cache, q, fetch)
	require.NoError(t, err)
	require.Equal(t, []string{"jane", "omar"}, got, "post-invalidation read must reflect post-write state")
	require.EqualValues(t, 2, fetches.Load())
}

func TestCache_InvalidationIsScopedToKind(t *testing.T) {
	cache := viewstate.New()
	members := viewstate.NewQuery(viewstate.KindMembers, nil)
	classes := viewstate.NewQuery(viewstate.KindClasses, nil)

	var memberFetches, classFetches atomic.Int64
	_, err := viewstate.Read(context.Background(), cache, members, func(ctx context.Context) (int, error) {
		memberFetches.Add(1)
		return 1, nil
	})
	require.NoError(t, err)
	_, err = viewstate.Read(context.Background(), cache, classes, func(ctx context.Context) (int, error) {
		classFetches.Add(1)
		return 1, nil
	})
	require.NoError(t, err)

	cache.Invalidate(viewstate.KindMembers)

	_, err = viewstate.Read(context.Background(), cache, classes, func(ctx context.Context) (int, error) {
		classFetches.Add(1)
		return 1, nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, classFetches.Load(), "classes entry must survive a members invalidation")
}

func TestCache_CoalescedConcurrentReads(t *testing.T) {
	cache := viewstate.New()
	q := viewstate.NewQuery(viewstate.KindMembers, map[string]string{"status": "active"})

	release := make(chan struct{})
	var fetches atomic.Int64
	fetch := func(ctx context.Context) ([]string, error) {
		fetches.Add(1)
		<-release
		return []string{"jane"}, nil
	}

	results := make([][]string, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := viewstate.Read(context.Background(), cache, q, fetch)
			require.NoError(t, err)
			results[i] = got
		}(i)
	}

	// Let both readers reach the shared fetch before releasing it. The
	// second reader either joins the flight or is served the ready entry;
	// in neither case does a second fetch dispatch.
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, fetches.Load(), "concurrent reads of an equal query must share one fetch")
	require.Equal(t, results[0], results[1])
}

func TestCache_ErrorEntriesRecover(t *testing.T) {
	cache := viewstate.New()
	q := viewstate.NewQuery(viewstate.KindDashboardStats, nil)

	failing := errors.New("upstream down")
	fail := true
	fetch := func(ctx context.Context) (string, error) {
		if fail {
			return "", failing
		}
		return "stats", nil
	}

	_, err := viewstate.Read(context.Background(), cache, q, fetch)
	require.ErrorIs(t, err, failing)

	info, ok := cache.Info(q)
	require.True(t, ok)
	require.Equal(t, viewstate.StatusError, info.Status)
	require.ErrorIs(t, info.Err, failing)

	// Errors do not permanently poison a query.
	fail = false
	got, err := viewstate.Read(context.Background(), cache, q, fetch)
	require.NoError(t, err)
	require.Equal(t, "stats", got)

	info, ok = cache.Info(q)
	require.True(t, ok)
	require.Equal(t, viewstate.StatusReady, info.Status)
}

func TestCache_StaleEntryGoesPendingWhileRefetching(t *testing.T) {
	cache := viewstate.New()
	q := viewstate.NewQuery(viewstate.KindMembers, nil)

	_, err := viewstate.Read(context.Background(), cache, q, func(ctx context.Context) (string, error) {
		return "first", nil
	})
	require.NoError(t, err)
	cache.Invalidate(viewstate.KindMembers)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = viewstate.Read(context.Background(), cache, q, func(ctx context.Context) (string, error) {
			close(entered)
			<-release
			return "second", nil
		})
	}()

	<-entered
	info, ok := cache.Info(q)
	require.True(t, ok)
	require.Equal(t, viewstate.StatusPending, info.Status, "a stale entry must read as pending while its refetch is in flight")

	// The previous data stays visible for stale-while-revalidate rendering.
	peeked, ok := cache.Peek(q)
	require.True(t, ok)
	require.Equal(t, "first", peeked)

	close(release)
	<-done

	info, ok = cache.Info(q)
	require.True(t, ok)
	require.Equal(t, viewstate.StatusReady, info.Status)
	require.False(t, info.Stale)
}

func TestCache_InvalidationDuringFlightKeepsEntryStale(t *testing.T) {
	cache := viewstate.New()
	q := viewstate.NewQuery(viewstate.KindMembers, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = viewstate.Read(context.Background(), cache, q, func(ctx context.Context) (string, error) {
			close(entered)
			<-release
			return "pre-write", nil
		})
	}()

	<-entered
	cache.Invalidate(viewstate.KindMembers)
	close(release)

	// The in-flight result may land, but it predates the write: the entry
	// must stay stale so the next read refetches.
	got, err := viewstate.Read(context.Background(), cache, q, func(ctx context.Context) (string, error) {
		return "post-write", nil
	})
	require.NoError(t, err)
	require.Equal(t, "post-write", got)
}

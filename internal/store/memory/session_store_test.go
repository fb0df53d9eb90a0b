package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/intake/internal/domain"
)

func TestGetOrCreateBootstrapsWelcome(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	sess := s.GetOrCreate("CA-1")
	require.NotNil(t, sess)
	assert.Equal(t, "CA-1", sess.CallID)
	assert.Equal(t, domain.StateWelcome, sess.State)
	assert.False(t, sess.CreatedAt.IsZero())
	assert.Equal(t, 1, s.Len())

	// Second call returns the same session, not a fresh one.
	again := s.GetOrCreate("CA-1")
	assert.Equal(t, sess.CreatedAt, again.CreatedAt)
	assert.Equal(t, 1, s.Len())
}

func TestGetUnknownCall(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	_, ok := s.Get("never-seen")
	assert.False(t, ok)
}

func TestUpdateUnknownCall(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	_, err := s.Update("never-seen", func(*domain.Session) {})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAppliesAndBumpsUpdatedAt(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	before := s.GetOrCreate("CA-1")

	got, err := s.Update("CA-1", func(sess *domain.Session) {
		sess.BatchNumber = "77"
		sess.State = domain.StateAskName
	})
	require.NoError(t, err)
	assert.Equal(t, "77", got.BatchNumber)
	assert.Equal(t, domain.StateAskName, got.State)
	assert.False(t, got.UpdatedAt.Before(before.UpdatedAt))

	// Untouched fields persist across updates.
	got, err = s.Update("CA-1", func(sess *domain.Session) {
		sess.CallerName = "Jane"
	})
	require.NoError(t, err)
	assert.Equal(t, "77", got.BatchNumber)
	assert.Equal(t, "Jane", got.CallerName)
}

func TestReturnedSessionsAreCopies(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	s.GetOrCreate("CA-1")

	got, err := s.Update("CA-1", func(sess *domain.Session) {
		sess.IncrementRetry(domain.StateGatherBatch)
	})
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the store.
	got.BatchNumber = "tampered"
	got.Retries[domain.StateGatherBatch] = 99

	stored, ok := s.Get("CA-1")
	require.True(t, ok)
	assert.Empty(t, stored.BatchNumber)
	assert.Equal(t, 1, stored.RetryCount(domain.StateGatherBatch))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	s.GetOrCreate("CA-1")
	s.Delete("CA-1")
	_, ok := s.Get("CA-1")
	assert.False(t, ok)

	// Deleting an unknown ID is a no-op.
	s.Delete("never-seen")
}

func TestConcurrentUpdatesSameCall(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	s.GetOrCreate("CA-1")

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update("CA-1", func(sess *domain.Session) {
				sess.IncrementRetry(domain.StateGatherBatch)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, ok := s.Get("CA-1")
	require.True(t, ok)
	assert.Equal(t, n, sess.RetryCount(domain.StateGatherBatch))
}

func TestConcurrentCreateDistinctCalls(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.GetOrCreate(fmt.Sprintf("CA-%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, s.Len())
}

func TestEvictStale(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewSessionStore()
	s.now = func() time.Time { return now }

	s.GetOrCreate("done-old")
	_, err := s.Update("done-old", func(sess *domain.Session) {
		sess.CallStatus = domain.CallStatusCompleted
	})
	require.NoError(t, err)

	s.GetOrCreate("done-fresh")
	_, err = s.Update("done-fresh", func(sess *domain.Session) {
		sess.CallStatus = domain.CallStatusCompleted
	})
	require.NoError(t, err)

	s.GetOrCreate("live-old")

	// Advance the clock past the TTL for the first two sessions, then touch
	// done-fresh so only done-old is stale.
	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = s.Update("done-fresh", func(*domain.Session) {})
	require.NoError(t, err)
	s.now = func() time.Time { return now.Add(2*time.Hour + time.Second) }

	evicted := s.EvictStale(time.Hour)
	assert.Equal(t, 1, evicted)

	_, ok := s.Get("done-old")
	assert.False(t, ok, "terminal stale session should be evicted")
	_, ok = s.Get("done-fresh")
	assert.True(t, ok, "recently updated session should survive")
	_, ok = s.Get("live-old")
	assert.True(t, ok, "in-flight session should never be evicted")
}

func TestSweepStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Sweep(ctx, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop after cancel")
	}
}

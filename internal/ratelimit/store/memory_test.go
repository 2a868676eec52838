package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 10
	testWindow = time.Minute
)

type InMemoryBucketStoreSuite struct {
	suite.Suite
	now   time.Time
	store *InMemoryBucketStore
	ctx   context.Context
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemoryBucketStore(WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *InMemoryBucketStoreSuite) TestAllow() {
	s.Run("first request allowed", func() {
		result, err := s.store.Allow(s.ctx, "k:first", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)
		s.Equal(s.now.Add(testWindow), result.ResetAt)
	})

	s.Run("request over limit denied with retry hint", func() {
		for range testLimit {
			result, err := s.store.Allow(s.ctx, "k:over", testLimit, testWindow)
			s.Require().NoError(err)
			s.True(result.Allowed)
		}
		s.now = s.now.Add(10 * time.Second)
		result, err := s.store.Allow(s.ctx, "k:over", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Equal(50, result.RetryAfter)
	})

	s.Run("window slides", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "k:slide", testLimit, testWindow)
			s.Require().NoError(err)
		}
		s.now = s.now.Add(testWindow + time.Millisecond)
		result, err := s.store.Allow(s.ctx, "k:slide", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("keys are independent", func() {
		for range testLimit {
			_, err := s.store.Allow(s.ctx, "k:a", testLimit, testWindow)
			s.Require().NoError(err)
		}
		result, err := s.store.Allow(s.ctx, "k:b", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})
}

func (s *InMemoryBucketStoreSuite) TestResetAndCount() {
	for range 3 {
		_, err := s.store.Allow(s.ctx, "k:reset", testLimit, testWindow)
		s.Require().NoError(err)
	}
	count, err := s.store.Count(s.ctx, "k:reset")
	s.Require().NoError(err)
	s.Equal(3, count)

	s.Require().NoError(s.store.Reset(s.ctx, "k:reset"))
	count, err = s.store.Count(s.ctx, "k:reset")
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *InMemoryBucketStoreSuite) TestPruneDropsIdleBuckets() {
	_, err := s.store.Allow(s.ctx, "k:idle", testLimit, testWindow)
	s.Require().NoError(err)
	s.now = s.now.Add(2 * testWindow)
	_, err = s.store.Allow(s.ctx, "k:live", testLimit, testWindow)
	s.Require().NoError(err)

	s.Equal(1, s.store.Prune())
	count, err := s.store.Count(s.ctx, "k:live")
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *InMemoryBucketStoreSuite) TestConcurrentAllowNeverExceedsLimit() {
	store := NewInMemoryBucketStore()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := store.Allow(s.ctx, "k:race", testLimit, testWindow)
			if err == nil && result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(testLimit, allowed)
}

package memory

import (
	"context"
	"sync"

	audit "lendmatch/pkg/platform/audit"
)

// InMemoryStore keeps audit events in append order. Used when no database is
// configured and in tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByAggregate returns the events recorded for one entity, oldest first.
func (s *InMemoryStore) ListByAggregate(_ context.Context, aggregateType, aggregateID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []audit.Event{}
	for _, e := range s.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListAll returns every recorded event, oldest first.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

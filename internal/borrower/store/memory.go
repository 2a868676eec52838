package store

import (
	"context"
	"slices"
	"sync"

	"lendmatch/internal/borrower/models"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/sentinel"
)

// InMemory keeps borrower records in submission order.
type InMemory struct {
	mu      sync.RWMutex
	records []*models.Borrower
	byID    map[id.BorrowerID]*models.Borrower
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.BorrowerID]*models.Borrower)}
}

func (s *InMemory) Create(_ context.Context, b *models.Borrower) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[b.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *b
	s.records = append(s.records, &cp)
	s.byID[b.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, borrowerID id.BorrowerID) (*models.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[borrowerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return b, nil
}

// FindMany returns the records found among ids; unknown ids are skipped.
func (s *InMemory) FindMany(_ context.Context, ids []id.BorrowerID) (map[id.BorrowerID]*models.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.BorrowerID]*models.Borrower, len(ids))
	for _, bid := range ids {
		if b, ok := s.byID[bid]; ok {
			out[bid] = b
		}
	}
	return out, nil
}

// ListByEmail returns every record for the normalized email, newest first.
func (s *InMemory) ListByEmail(_ context.Context, address string) ([]*models.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Borrower{}
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Contact.Email == address {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// ListLatest returns the newest record per email, in submission order.
func (s *InMemory) ListLatest(_ context.Context) ([]*models.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(s.records))
	out := make([]*models.Borrower, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		b := s.records[i]
		if _, dup := seen[b.Contact.Email]; dup {
			continue
		}
		seen[b.Contact.Email] = struct{}{}
		out = append(out, b)
	}
	slices.Reverse(out)
	return out, nil
}

package store

import (
	"context"
	"sync"
	"time"

	"lendmatch/internal/lender/models"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/sentinel"
)

// InMemory stores lenders in process memory.
type InMemory struct {
	mu      sync.RWMutex
	lenders map[id.LenderID]*models.Lender
	byEmail map[string]id.LenderID
}

func NewInMemory() *InMemory {
	return &InMemory{
		lenders: make(map[id.LenderID]*models.Lender),
		byEmail: make(map[string]id.LenderID),
	}
}

// Create inserts the lender unless its email is already taken, in which case
// sentinel.ErrConflict is returned. Email is compared in normalized form.
func (s *InMemory) Create(_ context.Context, lender *models.Lender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[lender.Email]; taken {
		return sentinel.ErrConflict
	}
	cp := *lender
	s.lenders[lender.ID] = &cp
	s.byEmail[lender.Email] = lender.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, lenderID id.LenderID) (*models.Lender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lenders[lenderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

// MarkDeleted records the deletion of an active lender.
func (s *InMemory) MarkDeleted(_ context.Context, lenderID id.LenderID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lenders[lenderID]
	if !ok || !l.IsActive() {
		return sentinel.ErrNotFound
	}
	cp := *l
	if err := cp.MarkDeleted(at); err != nil {
		return err
	}
	s.lenders[lenderID] = &cp
	return nil
}

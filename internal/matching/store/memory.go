package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"lendmatch/internal/matching/models"
	id "lendmatch/pkg/domain"
)

type pairKey struct {
	borrower id.BorrowerID
	lender   id.LenderID
}

// InMemory keeps one match result per borrower/lender pair.
type InMemory struct {
	mu      sync.RWMutex
	results map[pairKey]*models.MatchResult
}

func NewInMemory() *InMemory {
	return &InMemory{results: make(map[pairKey]*models.MatchResult)}
}

// Upsert stores r unless the pair already holds a result evaluated later,
// so a slow writer never overwrites a newer evaluation.
func (s *InMemory) Upsert(_ context.Context, r *models.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{borrower: r.BorrowerID, lender: r.LenderID}
	if cur, ok := s.results[key]; ok && cur.EvaluatedAt.After(r.EvaluatedAt) {
		return nil
	}
	cp := *r
	cp.Reasons = slices.Clone(r.Reasons)
	s.results[key] = &cp
	return nil
}

func (s *InMemory) ListByLender(_ context.Context, lenderID id.LenderID) ([]*models.MatchResult, error) {
	return s.filter(func(k pairKey) bool { return k.lender == lenderID }), nil
}

func (s *InMemory) ListByBorrower(_ context.Context, borrowerID id.BorrowerID) ([]*models.MatchResult, error) {
	return s.filter(func(k pairKey) bool { return k.borrower == borrowerID }), nil
}

func (s *InMemory) filter(keep func(pairKey) bool) []*models.MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.MatchResult{}
	for k, r := range s.results {
		if keep(k) {
			cp := *r
			out = append(out, &cp)
		}
	}
	models.Sort(out)
	return out
}

func (s *InMemory) DeleteLender(_ context.Context, lenderID id.LenderID) error {
	s.deleteWhere(func(k pairKey) bool { return k.lender == lenderID })
	return nil
}

// DeleteLenderExcept drops the lender's results for borrowers outside keep
// that were evaluated before the cutoff.
func (s *InMemory) DeleteLenderExcept(_ context.Context, lenderID id.LenderID, keep []id.BorrowerID, before time.Time) error {
	s.deleteStale(before, func(k pairKey) bool { return k.lender == lenderID && !slices.Contains(keep, k.borrower) })
	return nil
}

func (s *InMemory) DeleteBorrowers(_ context.Context, borrowerIDs []id.BorrowerID) error {
	s.deleteWhere(func(k pairKey) bool { return slices.Contains(borrowerIDs, k.borrower) })
	return nil
}

// DeleteBorrowerExcept drops the borrower's results for lenders outside keep
// that were evaluated before the cutoff.
func (s *InMemory) DeleteBorrowerExcept(_ context.Context, borrowerID id.BorrowerID, keep []id.LenderID, before time.Time) error {
	s.deleteStale(before, func(k pairKey) bool { return k.borrower == borrowerID && !slices.Contains(keep, k.lender) })
	return nil
}

func (s *InMemory) deleteWhere(match func(pairKey) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.results {
		if match(k) {
			delete(s.results, k)
		}
	}
}

func (s *InMemory) deleteStale(before time.Time, match func(pairKey) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range s.results {
		if match(k) && r.EvaluatedAt.Before(before) {
			delete(s.results, k)
		}
	}
}

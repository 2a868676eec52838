package service

import (
	"context"

	"lendmatch/internal/borrower/models"
	matchmodels "lendmatch/internal/matching/models"
	id "lendmatch/pkg/domain"
	audit "lendmatch/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

type Store interface {
	Create(ctx context.Context, b *models.Borrower) error
	FindByID(ctx context.Context, borrowerID id.BorrowerID) (*models.Borrower, error)
	// ListByEmail returns every record submitted with the address, newest first.
	ListByEmail(ctx context.Context, address string) ([]*models.Borrower, error)
}

// Evaluator scores a stored borrower against every active lender policy.
type Evaluator interface {
	EvaluateBorrower(ctx context.Context, borrowerID id.BorrowerID) ([]*matchmodels.MatchResult, error)
}

// MatchDiscarder drops stored matches of superseded records.
type MatchDiscarder interface {
	DiscardBorrowers(ctx context.Context, borrowerIDs []id.BorrowerID) error
}

type OpsTracker interface {
	Track(event audit.Event) bool
}

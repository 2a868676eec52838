package service

import (
	"context"
	"time"

	borrowermodels "lendmatch/internal/borrower/models"
	"lendmatch/internal/matching/models"
	policymodels "lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	audit "lendmatch/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// PolicySource reads current lender policies. Current returns
// sentinel.ErrNotFound for lenders without a policy.
type PolicySource interface {
	Current(ctx context.Context, lenderID id.LenderID) (*policymodels.Snapshot, error)
	ListActive(ctx context.Context) ([]*policymodels.Snapshot, error)
}

// BorrowerSource reads borrower records. ListLatest returns the newest
// record per email.
type BorrowerSource interface {
	FindByID(ctx context.Context, borrowerID id.BorrowerID) (*borrowermodels.Borrower, error)
	FindMany(ctx context.Context, ids []id.BorrowerID) (map[id.BorrowerID]*borrowermodels.Borrower, error)
	ListLatest(ctx context.Context) ([]*borrowermodels.Borrower, error)
}

// Store persists one match result per borrower/lender pair.
type Store interface {
	Upsert(ctx context.Context, r *models.MatchResult) error
	ListByLender(ctx context.Context, lenderID id.LenderID) ([]*models.MatchResult, error)
	ListByBorrower(ctx context.Context, borrowerID id.BorrowerID) ([]*models.MatchResult, error)
	DeleteLender(ctx context.Context, lenderID id.LenderID) error
	// DeleteLenderExcept and DeleteBorrowerExcept prune results evaluated
	// before the given time, so results written by a concurrent run survive.
	DeleteLenderExcept(ctx context.Context, lenderID id.LenderID, keep []id.BorrowerID, before time.Time) error
	DeleteBorrowers(ctx context.Context, borrowerIDs []id.BorrowerID) error
	DeleteBorrowerExcept(ctx context.Context, borrowerID id.BorrowerID, keep []id.LenderID, before time.Time) error
}

// LenderLookup reports whether a lender exists and is not deleted.
type LenderLookup interface {
	IsActive(ctx context.Context, lenderID id.LenderID) (bool, error)
}

type OpsTracker interface {
	Track(event audit.Event) bool
}

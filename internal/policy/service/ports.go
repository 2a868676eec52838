package service

import (
	"context"

	"lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	audit "lendmatch/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// Store persists versioned policy snapshots.
type Store interface {
	Save(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID) (*models.Snapshot, error)
	Current(ctx context.Context, lenderID id.LenderID) (*models.Snapshot, error)
	History(ctx context.Context, lenderID id.LenderID) ([]*models.Snapshot, error)
	Get(ctx context.Context, versionID id.VersionID) (*models.Snapshot, error)
}

// SweepScheduler re-evaluates a lender's borrower pool in the background.
type SweepScheduler interface {
	ScheduleSweep(lenderID id.LenderID)
}

// LenderLookup reports whether a lender exists and is not deleted.
type LenderLookup interface {
	IsActive(ctx context.Context, lenderID id.LenderID) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type OpsTracker interface {
	Track(event audit.Event) bool
}

// Transactor runs fn in one unit of work; see postgres.Transactor.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

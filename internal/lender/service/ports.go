package service

import (
	"context"
	"time"

	"lendmatch/internal/lender/models"
	policymodels "lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	audit "lendmatch/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

type Store interface {
	Create(ctx context.Context, lender *models.Lender) error
	FindByID(ctx context.Context, lenderID id.LenderID) (*models.Lender, error)
	MarkDeleted(ctx context.Context, lenderID id.LenderID, at time.Time) error
}

// PolicyResetter replaces a lender's policy with an empty, inactive version.
type PolicyResetter interface {
	ReplaceEmpty(ctx context.Context, lenderID id.LenderID) (*policymodels.Snapshot, error)
}

// MatchDiscarder drops every stored match of a lender.
type MatchDiscarder interface {
	DiscardLender(ctx context.Context, lenderID id.LenderID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Package service manages lender accounts.
package service

import (
	"context"
	"errors"
	"log/slog"

	"lendmatch/internal/lender/models"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
	audit "lendmatch/pkg/platform/audit"
	"lendmatch/pkg/platform/sentinel"
	"lendmatch/pkg/requestcontext"
)

type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	store    Store
	policies PolicyResetter
	matches  MatchDiscarder
	auditor  AuditPublisher
	tx       Transactor
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPolicyResetter(p PolicyResetter) Option {
	return func(s *Service) { s.policies = p }
}

func WithMatchDiscarder(m MatchDiscarder) Option {
	return func(s *Service) { s.matches = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithTransactor(tx Transactor) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, tx: noTx{}, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a lender. Emails are unique case-insensitively.
func (s *Service) Register(ctx context.Context, name, address string) (*models.Lender, error) {
	lender, err := models.NewLender(id.NewLenderID(), name, address, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, lender); err != nil {
			return err
		}
		return s.emit(ctx, audit.Event{
			AggregateType: "lender",
			AggregateID:   lender.ID.String(),
			Action:        string(audit.EventLenderRegistered),
			Subject:       lender.Name,
		})
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "a lender with this email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register lender")
	}

	s.logger.InfoContext(ctx, "lender registered", "lender_id", lender.ID.String())
	return lender, nil
}

func (s *Service) Get(ctx context.Context, lenderID id.LenderID) (*models.Lender, error) {
	lender, err := s.store.FindByID(ctx, lenderID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "lender not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load lender")
	}
	return lender, nil
}

// IsActive reports whether the lender exists and has not been deleted.
func (s *Service) IsActive(ctx context.Context, lenderID id.LenderID) (bool, error) {
	lender, err := s.store.FindByID(ctx, lenderID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return lender.IsActive(), nil
}

// Delete soft-deletes the lender, saves an empty policy version so the lender
// stops matching, and discards its stored matches.
func (s *Service) Delete(ctx context.Context, lenderID id.LenderID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.MarkDeleted(ctx, lenderID, requestcontext.Now(ctx)); err != nil {
			return err
		}
		return s.emit(ctx, audit.Event{
			AggregateType: "lender",
			AggregateID:   lenderID.String(),
			Action:        string(audit.EventLenderDeleted),
		})
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "lender not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete lender")
	}

	if s.policies != nil {
		if _, err := s.policies.ReplaceEmpty(ctx, lenderID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate lender policy")
		}
	}
	if s.matches != nil {
		if err := s.matches.DiscardLender(ctx, lenderID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to discard lender matches")
		}
	}

	s.logger.InfoContext(ctx, "lender deleted", "lender_id", lenderID.String())
	return nil
}

// emit publishes an audit event. Outside a transaction the write it follows
// is already visible, so a failed publish is logged and the write stands.
func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	err := s.auditor.Emit(ctx, event)
	if _, ok := s.tx.(noTx); err != nil && ok {
		s.logger.ErrorContext(ctx, "lender audit event lost",
			"lender_id", event.AggregateID,
			"action", event.Action,
			"error", err,
		)
		return nil
	}
	return err
}

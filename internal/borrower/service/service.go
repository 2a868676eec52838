// Package service accepts borrower submissions and matches them against
// lender policies.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lendmatch/internal/borrower/models"
	"lendmatch/internal/fields"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
	audit "lendmatch/pkg/platform/audit"
	"lendmatch/pkg/platform/sentinel"
	"lendmatch/pkg/requestcontext"
)

// SubmitRequest is a raw intake submission. Attributes are JSON-decoded values
// keyed by field key and are coerced through the field registry.
type SubmitRequest struct {
	Contact    models.Contact
	Attributes map[string]any
}

type SubmitResult struct {
	Borrower *models.Borrower
	// MatchCount is the number of lenders that did not reject the borrower.
	MatchCount int
	// EvaluationPending is set when the record was stored but matching did
	// not complete; lender sweeps pick the record up later.
	EvaluationPending bool
}

type Service struct {
	store     Store
	registry  *fields.Registry
	evaluator Evaluator
	matches   MatchDiscarder
	ops       OpsTracker
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMatchDiscarder(m MatchDiscarder) Option {
	return func(s *Service) { s.matches = m }
}

func WithOpsTracker(tracker OpsTracker) Option {
	return func(s *Service) { s.ops = tracker }
}

func New(store Store, registry *fields.Registry, evaluator Evaluator, opts ...Option) *Service {
	s := &Service{
		store:     store,
		registry:  registry,
		evaluator: evaluator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit validates and stores a borrower record, supersedes earlier records
// with the same email and evaluates the new record against every active
// lender policy before returning. Once the record is stored Submit succeeds;
// a failed evaluation is reported through EvaluationPending so a retry does
// not create another superseding record.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	contact := req.Contact
	contact.Normalize()

	details := contact.Problems()
	attrs, err := s.registry.CoerceAll(req.Attributes)
	if err != nil {
		var de *dErrors.Error
		if !errors.As(err, &de) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read borrower attributes")
		}
		details = append(details, de.Details...)
	}
	if len(details) > 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid borrower submission").WithDetails(details...)
	}

	borrower := &models.Borrower{
		ID:         id.NewBorrowerID(),
		CreatedAt:  requestcontext.Now(ctx),
		Contact:    contact,
		Attributes: attrs,
	}

	prior, err := s.store.ListByEmail(ctx, contact.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load prior submissions")
	}
	if err := s.store.Create(ctx, borrower); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store borrower")
	}

	if len(prior) > 0 && s.matches != nil {
		superseded := make([]id.BorrowerID, len(prior))
		for i, b := range prior {
			superseded[i] = b.ID
		}
		if err := s.matches.DiscardBorrowers(ctx, superseded); err != nil {
			// Sweeps prune results of superseded records.
			s.logger.WarnContext(ctx, "failed to discard superseded matches",
				"borrower_id", borrower.ID.String(),
				"superseded", len(superseded),
				"error", err,
			)
		}
	}

	results, err := s.evaluator.EvaluateBorrower(ctx, borrower.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "borrower evaluation failed",
			"borrower_id", borrower.ID.String(),
			"error", err,
		)
		s.track(borrower.ID, "evaluation pending")
		return &SubmitResult{Borrower: borrower, EvaluationPending: true}, nil
	}
	matched := 0
	for _, r := range results {
		if r.IsMatch() {
			matched++
		}
	}

	s.logger.InfoContext(ctx, "borrower submitted",
		"borrower_id", borrower.ID.String(),
		"superseded", len(prior),
		"lenders", len(results),
		"matched", matched,
	)
	s.track(borrower.ID, fmt.Sprintf("lenders=%d matched=%d", len(results), matched))
	return &SubmitResult{Borrower: borrower, MatchCount: matched}, nil
}

func (s *Service) track(borrowerID id.BorrowerID, reason string) {
	if s.ops == nil {
		return
	}
	s.ops.Track(audit.Event{
		AggregateType: "borrower",
		AggregateID:   borrowerID.String(),
		Action:        string(audit.EventBorrowerSubmitted),
		Reason:        reason,
	})
}

func (s *Service) Get(ctx context.Context, borrowerID id.BorrowerID) (*models.Borrower, error) {
	b, err := s.store.FindByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "borrower not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load borrower")
	}
	return b, nil
}

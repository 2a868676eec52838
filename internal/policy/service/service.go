// Package service orchestrates policy authoring: validation against the field
// registry, versioned persistence, audit and the re-evaluation sweep that
// follows every save.
package service

import (
	"context"
	"errors"
	"log/slog"

	"lendmatch/internal/fields"
	"lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
	audit "lendmatch/pkg/platform/audit"
	"lendmatch/pkg/platform/sentinel"
	"lendmatch/pkg/requestcontext"
)

type cacheInvalidator interface {
	Invalidate(ctx context.Context, lenderID id.LenderID)
}

type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service owns the policy lifecycle of every lender.
type Service struct {
	store    Store
	registry *fields.Registry
	sweeps   SweepScheduler
	lenders  LenderLookup
	auditor  AuditPublisher
	ops      OpsTracker
	tx       Transactor
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithSweepScheduler(sweeps SweepScheduler) Option {
	return func(s *Service) { s.sweeps = sweeps }
}

func WithLenderLookup(lenders LenderLookup) Option {
	return func(s *Service) { s.lenders = lenders }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithOpsTracker(tracker OpsTracker) Option {
	return func(s *Service) { s.ops = tracker }
}

func WithTransactor(tx Transactor) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

func New(store Store, registry *fields.Registry, opts ...Option) *Service {
	s := &Service{
		store:    store,
		registry: registry,
		tx:       noTx{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SaveDraft validates a full replacement draft and appends it as the lender's
// new current version. A nil base skips the stale check; otherwise base must
// be the current version. Validation failures carry one detail per failing
// program or rule and nothing is persisted.
func (s *Service) SaveDraft(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID) (*models.Snapshot, error) {
	return s.save(ctx, lenderID, draft, base, audit.EventPolicySaved)
}

// MergeExtraction folds an extracted policy fragment into the lender's
// current draft (set-union of industries and states, programs appended) and
// saves the result. With a nil base the merge is checked against the version
// it was computed from.
func (s *Service) MergeExtraction(ctx context.Context, lenderID id.LenderID, extracted models.Draft, base id.VersionID) (*models.Snapshot, error) {
	var current models.Draft
	snap, err := s.store.Current(ctx, lenderID)
	switch {
	case err == nil:
		current = snap.Draft()
		if base.IsNil() {
			base = snap.VersionID
		}
	case errors.Is(err, sentinel.ErrNotFound):
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load current policy")
	}

	return s.save(ctx, lenderID, current.Merge(extracted), base, audit.EventPolicyExtractionMerged)
}

func (s *Service) save(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID, action audit.AuditEvent) (*models.Snapshot, error) {
	if err := s.requireLender(ctx, lenderID); err != nil {
		return nil, err
	}
	prepared, err := draft.Prepare(s.registry)
	if err != nil {
		s.logger.InfoContext(ctx, "policy draft rejected",
			"lender_id", lenderID.String(),
			"code", dErrors.CodeOf(err),
			"error", err,
		)
		return nil, err
	}

	snap, err := s.persist(ctx, lenderID, prepared, base, action)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "policy saved",
		"lender_id", lenderID.String(),
		"version_id", snap.VersionID.String(),
		"programs", len(snap.Policy.Programs),
		"is_active", snap.Policy.IsActive,
	)
	if s.sweeps != nil {
		s.sweeps.ScheduleSweep(lenderID)
	}
	return snap, nil
}

// ReplaceEmpty saves an empty policy so the lender stops matching. Used when
// a lender is deleted; it skips lender and draft validation.
func (s *Service) ReplaceEmpty(ctx context.Context, lenderID id.LenderID) (*models.Snapshot, error) {
	snap, err := s.persist(ctx, lenderID, models.Draft{}, id.VersionID{}, audit.EventPolicySaved)
	if err != nil {
		return nil, err
	}
	if s.sweeps != nil {
		s.sweeps.ScheduleSweep(lenderID)
	}
	return snap, nil
}

func (s *Service) persist(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID, action audit.AuditEvent) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		saved, err := s.store.Save(ctx, lenderID, draft, base)
		if err != nil {
			return err
		}
		snap = saved
		err = s.emit(ctx, audit.Event{
			AggregateType: "lender",
			AggregateID:   lenderID.String(),
			Action:        string(action),
			VersionID:     saved.VersionID.String(),
			Decision:      activeLabel(saved.Policy.IsActive),
		})
		if err != nil && !s.atomic() {
			// Without a transaction the version is already current; the save stands.
			s.logger.ErrorContext(ctx, "policy audit event lost",
				"lender_id", lenderID.String(),
				"version_id", saved.VersionID.String(),
				"error", err,
			)
			return nil
		}
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrStaleVersion):
			s.track(ctx, audit.Event{
				AggregateType: "lender",
				AggregateID:   lenderID.String(),
				Action:        string(audit.EventPolicyStaleSaveRejected),
				VersionID:     base.String(),
			})
			return nil, dErrors.New(dErrors.CodeStaleVersion, "policy was modified since base_version; reload and retry")
		case dErrors.HasCode(err, dErrors.CodeTimeout):
			return nil, err
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save policy")
		}
	}
	if inv, ok := s.store.(cacheInvalidator); ok {
		inv.Invalidate(ctx, lenderID)
	}
	return snap, nil
}

// Current returns the lender's current snapshot.
func (s *Service) Current(ctx context.Context, lenderID id.LenderID) (*models.Snapshot, error) {
	snap, err := s.store.Current(ctx, lenderID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "lender has no policy")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load policy")
	}
	return snap, nil
}

// History lists the lender's versions, most recent first.
func (s *Service) History(ctx context.Context, lenderID id.LenderID) ([]models.HistoryEntry, error) {
	snaps, err := s.store.History(ctx, lenderID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load policy history")
	}
	entries := make([]models.HistoryEntry, len(snaps))
	for i, snap := range snaps {
		entries[i] = snap.Summary()
	}
	return entries, nil
}

// Version returns one historical snapshot of the lender.
func (s *Service) Version(ctx context.Context, lenderID id.LenderID, versionID id.VersionID) (*models.Snapshot, error) {
	snap, err := s.store.Get(ctx, versionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "policy version not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load policy version")
	}
	if snap.LenderID != lenderID {
		return nil, dErrors.New(dErrors.CodeNotFound, "policy version not found")
	}
	return snap, nil
}

func (s *Service) requireLender(ctx context.Context, lenderID id.LenderID) error {
	if s.lenders == nil {
		return nil
	}
	ok, err := s.lenders.IsActive(ctx, lenderID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load lender")
	}
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "lender not found")
	}
	return nil
}

// atomic reports whether a write and its audit event commit together.
func (s *Service) atomic() bool {
	_, ok := s.tx.(noTx)
	return !ok
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Emit(ctx, event)
}

func (s *Service) track(ctx context.Context, event audit.Event) {
	if s.ops == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	s.ops.Track(event)
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

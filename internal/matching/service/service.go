// Package service runs borrower/lender evaluations and keeps stored match
// results in step with borrower submissions and policy changes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	borrowermodels "lendmatch/internal/borrower/models"
	"lendmatch/internal/evaluator"
	"lendmatch/internal/matching/metrics"
	"lendmatch/internal/matching/models"
	policymodels "lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
	audit "lendmatch/pkg/platform/audit"
	"lendmatch/pkg/platform/sentinel"
)

const (
	defaultWorkers = 8
	tracerName     = "lendmatch/matching"
)

type evaluateFunc func(evaluator.Attributes, policymodels.Policy, evaluator.Options) evaluator.Outcome

type sweepHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Service owns match results. Evaluations fan out over a bounded errgroup;
// background sweeps are tracked per lender so a newer save cancels the
// running one.
type Service struct {
	policies  PolicySource
	borrowers BorrowerSource
	store     Store
	lenders   LenderLookup
	opts      evaluator.Options
	workers   int
	evaluate  evaluateFunc
	now       func() time.Time
	tracer    trace.Tracer
	metrics   *metrics.Metrics
	ops       OpsTracker
	logger    *slog.Logger

	mu         sync.Mutex
	running    map[id.LenderID]*sweepHandle
	closed     bool
	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLenderLookup makes lender-scoped reads report NotFound for unknown or
// deleted lenders.
func WithLenderLookup(lenders LenderLookup) Option {
	return func(s *Service) { s.lenders = lenders }
}

func WithOpsTracker(tracker OpsTracker) Option {
	return func(s *Service) { s.ops = tracker }
}

// WithWorkers bounds concurrent pair evaluations per call.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithEvaluatorOptions sets the classification thresholds.
func WithEvaluatorOptions(opts evaluator.Options) Option {
	return func(s *Service) { s.opts = opts }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

func New(policies PolicySource, borrowers BorrowerSource, store Store, opts ...Option) *Service {
	baseCtx, baseCancel := context.WithCancel(context.Background())
	s := &Service{
		policies:   policies,
		borrowers:  borrowers,
		store:      store,
		opts:       evaluator.DefaultOptions(),
		workers:    defaultWorkers,
		evaluate:   evaluator.Evaluate,
		now:        time.Now,
		tracer:     otel.Tracer(tracerName),
		logger:     slog.Default(),
		running:    make(map[id.LenderID]*sweepHandle),
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// EvaluateBorrower scores one borrower against every active policy, stores a
// result per lender and drops the borrower's results for lenders that are no
// longer active. Results are returned best first.
func (s *Service) EvaluateBorrower(ctx context.Context, borrowerID id.BorrowerID) ([]*models.MatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "matching.EvaluateBorrower",
		trace.WithAttributes(attribute.String("borrower_id", borrowerID.String())))
	defer span.End()
	startedAt := s.now()

	borrower, err := s.borrowers.FindByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "borrower not found")
		}
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load borrower"))
	}
	snaps, err := s.policies.ListActive(ctx)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active policies"))
	}
	span.SetAttributes(attribute.Int("lenders", len(snaps)))

	results := make([]*models.MatchResult, len(snaps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, snap := range snaps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := s.evaluatePair(gctx, borrower, snap)
			if err := s.store.Upsert(gctx, r); err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate borrower"))
	}

	active := make([]id.LenderID, len(snaps))
	for i, snap := range snaps {
		active[i] = snap.LenderID
	}
	if err := s.store.DeleteBorrowerExcept(ctx, borrowerID, active, startedAt); err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to prune borrower matches"))
	}

	models.Sort(results)
	return results, nil
}

// SweepSummary describes a finished lender sweep.
type SweepSummary struct {
	LenderID  id.LenderID
	Version   id.VersionID
	Evaluated int
	Matched   int
	// Discarded is set when the lender has no active policy and all of its
	// results were removed instead.
	Discarded bool
}

// SweepLender re-evaluates the borrower pool (the newest record per email)
// against the lender's current policy, superseding prior results. An inactive
// or missing policy discards all of the lender's results. When ctx is
// cancelled mid-sweep the pairs already written stay stored.
func (s *Service) SweepLender(ctx context.Context, lenderID id.LenderID) (SweepSummary, error) {
	ctx, span := s.tracer.Start(ctx, "matching.SweepLender",
		trace.WithAttributes(attribute.String("lender_id", lenderID.String())))
	defer span.End()
	start := time.Now()
	startedAt := s.now()
	summary := SweepSummary{LenderID: lenderID}

	snap, err := s.policies.Current(ctx, lenderID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return summary, s.fail(span, fmt.Errorf("load current policy: %w", err))
	}
	if snap == nil || !snap.Policy.IsActive {
		if err := s.store.DeleteLender(ctx, lenderID); err != nil {
			return summary, s.fail(span, fmt.Errorf("discard lender matches: %w", err))
		}
		summary.Discarded = true
		return summary, nil
	}
	summary.Version = snap.VersionID

	pool, err := s.borrowers.ListLatest(ctx)
	if err != nil {
		return summary, s.fail(span, fmt.Errorf("load borrower pool: %w", err))
	}
	span.SetAttributes(attribute.Int("borrowers", len(pool)), attribute.String("policy_version", snap.VersionID.String()))

	var (
		countMu sync.Mutex
		matched int
		done    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, b := range pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := s.evaluatePair(gctx, b, snap)
			if err := s.store.Upsert(gctx, r); err != nil {
				return err
			}
			countMu.Lock()
			done++
			if r.IsMatch() {
				matched++
			}
			countMu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	summary.Evaluated, summary.Matched = done, matched
	if err != nil {
		return summary, s.fail(span, fmt.Errorf("sweep lender: %w", err))
	}

	keep := make([]id.BorrowerID, len(pool))
	for i, b := range pool {
		keep[i] = b.ID
	}
	if err := s.store.DeleteLenderExcept(ctx, lenderID, keep, startedAt); err != nil {
		return summary, s.fail(span, fmt.Errorf("prune lender matches: %w", err))
	}

	s.metrics.ObserveSweep(time.Since(start).Seconds())
	return summary, nil
}

// ScheduleSweep runs SweepLender in the background. A sweep already running
// for the same lender is cancelled and the new one starts after it stops.
// Calls after Close are ignored.
func (s *Service) ScheduleSweep(lenderID id.LenderID) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	prev := s.running[lenderID]
	if prev != nil {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	h := &sweepHandle{cancel: cancel, done: make(chan struct{})}
	s.running[lenderID] = h
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer close(h.done)
		defer cancel()
		if prev != nil {
			<-prev.done
		}
		s.runSweep(ctx, lenderID)

		s.mu.Lock()
		if s.running[lenderID] == h {
			delete(s.running, lenderID)
		}
		s.mu.Unlock()
	}()
}

func (s *Service) runSweep(ctx context.Context, lenderID id.LenderID) {
	s.metrics.SweepStarted()
	defer s.metrics.SweepFinished()

	summary, err := s.SweepLender(ctx, lenderID)
	switch {
	case err != nil && ctx.Err() != nil:
		s.metrics.IncSweepCancelled()
		s.logger.Info("lender sweep cancelled",
			"lender_id", lenderID.String(),
			"evaluated", summary.Evaluated,
		)
		s.track(audit.EventSweepCancelled, summary)
	case err != nil:
		s.logger.Error("lender sweep failed",
			"lender_id", lenderID.String(),
			"error", err,
		)
	default:
		s.logger.Info("lender sweep completed",
			"lender_id", lenderID.String(),
			"policy_version", summary.Version.String(),
			"evaluated", summary.Evaluated,
			"matched", summary.Matched,
			"discarded", summary.Discarded,
		)
		s.track(audit.EventSweepCompleted, summary)
	}
}

// Close cancels running sweeps and waits for them to stop.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.baseCancel()
	s.mu.Unlock()
	s.wg.Wait()
}

// evaluatePair never panics: a panic inside the evaluator is recorded as a
// rejected result carrying ReasonEvaluationError.
func (s *Service) evaluatePair(ctx context.Context, b *borrowermodels.Borrower, snap *policymodels.Snapshot) (result *models.MatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			s.metrics.IncEvaluationPanic()
			s.logger.ErrorContext(ctx, "evaluation panicked",
				"borrower_id", b.ID.String(),
				"lender_id", snap.LenderID.String(),
				"panic", fmt.Sprint(rec),
			)
			result = models.FromOutcome(b.ID, snap.LenderID, snap.VersionID, evaluator.Outcome{
				Status:  evaluator.StatusRejected,
				Reasons: []string{models.ReasonEvaluationError},
			}, s.now())
		}
		s.metrics.IncEvaluation(string(result.Status))
	}()

	outcome := s.evaluate(evaluator.Attributes(b.Attributes), snap.Policy, s.opts)
	return models.FromOutcome(b.ID, snap.LenderID, snap.VersionID, outcome, s.now())
}

// MatchesForLender lists the lender's results joined with borrower contact
// data, best status first then most recent.
func (s *Service) MatchesForLender(ctx context.Context, lenderID id.LenderID) ([]models.LenderMatchView, error) {
	if err := s.requireLender(ctx, lenderID); err != nil {
		return nil, err
	}
	results, err := s.store.ListByLender(ctx, lenderID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load lender matches")
	}
	ids := make([]id.BorrowerID, len(results))
	for i, r := range results {
		ids[i] = r.BorrowerID
	}
	borrowers, err := s.borrowers.FindMany(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load borrowers")
	}

	views := make([]models.LenderMatchView, 0, len(results))
	for _, r := range results {
		view := models.LenderMatchView{
			BorrowerID:  r.BorrowerID,
			Amount:      r.Amount,
			Status:      r.Status,
			ProgramName: r.ProgramName,
			Reasons:     r.Reasons,
			EvaluatedAt: r.EvaluatedAt,
		}
		if b, ok := borrowers[r.BorrowerID]; ok {
			view.BorrowerName = b.DisplayName()
			view.BusinessName = b.Contact.BusinessName
		}
		views = append(views, view)
	}
	return views, nil
}

// MatchesForBorrower lists the borrower's results, best status first.
func (s *Service) MatchesForBorrower(ctx context.Context, borrowerID id.BorrowerID) ([]*models.MatchResult, error) {
	if _, err := s.borrowers.FindByID(ctx, borrowerID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "borrower not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load borrower")
	}
	results, err := s.store.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load borrower matches")
	}
	return results, nil
}

// MatchedBorrower returns the borrower's full record to a lender holding a
// non-rejected result for the pair. Without one the lender gets Forbidden.
func (s *Service) MatchedBorrower(ctx context.Context, lenderID id.LenderID, borrowerID id.BorrowerID) (*models.MatchedBorrowerView, error) {
	if err := s.requireLender(ctx, lenderID); err != nil {
		return nil, err
	}
	results, err := s.store.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load borrower matches")
	}
	var match *models.MatchResult
	for _, r := range results {
		if r.LenderID == lenderID && r.IsMatch() {
			match = r
			break
		}
	}
	if match == nil {
		return nil, dErrors.New(dErrors.CodeForbidden, "no active match with this borrower")
	}

	b, err := s.borrowers.FindByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "borrower not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load borrower")
	}
	return &models.MatchedBorrowerView{Borrower: b, Match: match}, nil
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

// DiscardLender removes every stored result of the lender.
func (s *Service) DiscardLender(ctx context.Context, lenderID id.LenderID) error {
	return s.store.DeleteLender(ctx, lenderID)
}

// DiscardBorrowers removes every stored result of the given records; used
// when a resubmission supersedes them.
func (s *Service) DiscardBorrowers(ctx context.Context, borrowerIDs []id.BorrowerID) error {
	return s.store.DeleteBorrowers(ctx, borrowerIDs)
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *Service) track(action audit.AuditEvent, summary SweepSummary) {
	if s.ops == nil {
		return
	}
	s.ops.Track(audit.Event{
		AggregateType: "lender",
		AggregateID:   summary.LenderID.String(),
		Action:        string(action),
		VersionID:     summary.Version.String(),
		Reason:        fmt.Sprintf("evaluated=%d matched=%d", summary.Evaluated, summary.Matched),
	})
}

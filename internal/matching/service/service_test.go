package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	borrowermodels "lendmatch/internal/borrower/models"
	borrowerstore "lendmatch/internal/borrower/store"
	"lendmatch/internal/evaluator"
	"lendmatch/internal/fields"
	"lendmatch/internal/matching/models"
	"lendmatch/internal/matching/service/mocks"
	matchstore "lendmatch/internal/matching/store"
	policymodels "lendmatch/internal/policy/models"
	policystore "lendmatch/internal/policy/store"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
	audit "lendmatch/pkg/platform/audit"
)

type recordingTracker struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingTracker) Track(e audit.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return true
}

func (r *recordingTracker) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

// blockingStore parks the first Upsert until its context is cancelled.
type blockingStore struct {
	*matchstore.InMemory
	blockFirst atomic.Bool
	started    chan struct{}
}

func (b *blockingStore) Upsert(ctx context.Context, r *models.MatchResult) error {
	if b.blockFirst.CompareAndSwap(true, false) {
		close(b.started)
		<-ctx.Done()
		return ctx.Err()
	}
	return b.InMemory.Upsert(ctx, r)
}

type MatchServiceSuite struct {
	suite.Suite
	ctx       context.Context
	policies  *policystore.InMemoryStore
	borrowers *borrowerstore.InMemory
	matches   *matchstore.InMemory
	tracker   *recordingTracker
	service   *Service
}

func TestMatchServiceSuite(t *testing.T) {
	suite.Run(t, new(MatchServiceSuite))
}

func (s *MatchServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.policies = policystore.NewInMemoryStore()
	s.borrowers = borrowerstore.NewInMemory()
	s.matches = matchstore.NewInMemory()
	s.tracker = &recordingTracker{}
	s.service = New(s.policies, s.borrowers, s.matches, WithWorkers(2), WithOpsTracker(s.tracker))
}

func (s *MatchServiceSuite) TearDownTest() {
	s.service.Close()
}

func (s *MatchServiceSuite) addBorrower(address string, fico float64, state string) *borrowermodels.Borrower {
	b := &borrowermodels.Borrower{
		ID:        id.NewBorrowerID(),
		CreatedAt: time.Now(),
		Contact: borrowermodels.Contact{
			FullName:     "Dana Reyes",
			Email:        address,
			Phone:        "555-0100",
			BusinessName: "Reyes Hauling",
		},
		Attributes: map[string]fields.Value{
			"guarantor_fico": fields.Number(fico),
			"loan_amount":    fields.Number(50000),
			"business_state": fields.String(state),
		},
	}
	s.Require().NoError(s.borrowers.Create(s.ctx, b))
	return b
}

func (s *MatchServiceSuite) savePolicy(lenderID id.LenderID, restricted []string, programs ...policymodels.Program) *policymodels.Snapshot {
	snap, err := s.policies.Save(s.ctx, lenderID, policymodels.Draft{RestrictedStates: restricted, Programs: programs}, id.VersionID{})
	s.Require().NoError(err)
	return snap
}

func ficoProgram(min float64) policymodels.Program {
	return policymodels.Program{
		Name:          "Core",
		MinLoanAmount: decimal.NewFromInt(10000),
		MaxLoanAmount: decimal.NewFromInt(100000),
		Rules: []policymodels.Rule{{
			FieldKey:      "guarantor_fico",
			Operator:      policymodels.OpGTE,
			Operand:       fields.Number(min),
			Strict:        true,
			FailureReason: "FICO too low",
		}},
	}
}

func (s *MatchServiceSuite) TestEvaluateBorrower() {
	borrower := s.addBorrower("dana@example.com", 720, "TX")
	matching := id.NewLenderID()
	knockout := id.NewLenderID()
	retired := id.NewLenderID()
	s.savePolicy(matching, nil, ficoProgram(680))
	s.savePolicy(knockout, []string{"TX"}, ficoProgram(600))
	s.savePolicy(retired, nil)

	// a stale result for a lender whose policy is no longer active
	s.Require().NoError(s.matches.Upsert(s.ctx, &models.MatchResult{
		BorrowerID: borrower.ID, LenderID: retired, Status: evaluator.StatusPerfect, EvaluatedAt: time.Now().Add(-time.Hour),
	}))

	results, err := s.service.EvaluateBorrower(s.ctx, borrower.ID)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(matching, results[0].LenderID)
	s.Equal(evaluator.StatusPerfect, results[0].Status)
	s.Equal("Core", results[0].ProgramName)
	s.Equal(knockout, results[1].LenderID)
	s.Equal(evaluator.StatusRejected, results[1].Status)

	stored, err := s.service.MatchesForBorrower(s.ctx, borrower.ID)
	s.Require().NoError(err)
	s.Len(stored, 2)
	for _, r := range stored {
		s.NotEqual(retired, r.LenderID)
	}
}

func (s *MatchServiceSuite) TestEvaluateBorrowerIsDeterministic() {
	borrower := s.addBorrower("dana@example.com", 700, "NV")
	s.savePolicy(id.NewLenderID(), nil, ficoProgram(650))

	first, err := s.service.EvaluateBorrower(s.ctx, borrower.ID)
	s.Require().NoError(err)
	second, err := s.service.EvaluateBorrower(s.ctx, borrower.ID)
	s.Require().NoError(err)

	s.Require().Len(second, len(first))
	for i := range first {
		s.Equal(first[i].Status, second[i].Status)
		s.Equal(first[i].ProgramName, second[i].ProgramName)
		s.Equal(first[i].Reasons, second[i].Reasons)
	}
}

func (s *MatchServiceSuite) TestEvaluateBorrowerUnknown() {
	_, err := s.service.EvaluateBorrower(s.ctx, id.NewBorrowerID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.MatchesForBorrower(s.ctx, id.NewBorrowerID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MatchServiceSuite) TestSweepLenderSupersedesResults() {
	lenderID := id.NewLenderID()
	superseded := s.addBorrower("dana@example.com", 600, "NV")
	other := s.addBorrower("lee@example.com", 710, "NV")
	s.savePolicy(lenderID, nil, ficoProgram(650))

	_, err := s.service.SweepLender(s.ctx, lenderID)
	s.Require().NoError(err)
	views, err := s.service.MatchesForLender(s.ctx, lenderID)
	s.Require().NoError(err)
	s.Len(views, 2)

	resubmitted := s.addBorrower("dana@example.com", 760, "NV")
	summary, err := s.service.SweepLender(s.ctx, lenderID)
	s.Require().NoError(err)
	s.Equal(2, summary.Evaluated)
	s.Equal(2, summary.Matched)

	views, err = s.service.MatchesForLender(s.ctx, lenderID)
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	ids := []id.BorrowerID{views[0].BorrowerID, views[1].BorrowerID}
	s.ElementsMatch([]id.BorrowerID{resubmitted.ID, other.ID}, ids)
	s.NotContains(ids, superseded.ID)
	s.Equal("Dana Reyes", views[0].BorrowerName)
	s.Equal("Reyes Hauling", views[0].BusinessName)
}

func (s *MatchServiceSuite) TestSweepLenderInactivePolicyDiscards() {
	lenderID := id.NewLenderID()
	s.addBorrower("dana@example.com", 700, "NV")
	s.savePolicy(lenderID, nil, ficoProgram(650))
	_, err := s.service.SweepLender(s.ctx, lenderID)
	s.Require().NoError(err)

	s.savePolicy(lenderID, nil)
	summary, err := s.service.SweepLender(s.ctx, lenderID)
	s.Require().NoError(err)
	s.True(summary.Discarded)

	views, err := s.service.MatchesForLender(s.ctx, lenderID)
	s.Require().NoError(err)
	s.Empty(views)

	s.Run("missing policy also discards", func() {
		summary, err := s.service.SweepLender(s.ctx, id.NewLenderID())
		s.Require().NoError(err)
		s.True(summary.Discarded)
	})
}

func (s *MatchServiceSuite) TestPanicIsRecordedAsRejected() {
	borrower := s.addBorrower("dana@example.com", 700, "NV")
	healthy := id.NewLenderID()
	broken := id.NewLenderID()
	s.savePolicy(healthy, nil, ficoProgram(650))
	brokenSnap := s.savePolicy(broken, nil, ficoProgram(650))

	s.service.evaluate = func(attrs evaluator.Attributes, p policymodels.Policy, opts evaluator.Options) evaluator.Outcome {
		if p.LenderID == brokenSnap.LenderID {
			panic("corrupt operand")
		}
		return evaluator.Evaluate(attrs, p, opts)
	}

	results, err := s.service.EvaluateBorrower(s.ctx, borrower.ID)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(healthy, results[0].LenderID)
	s.Equal(evaluator.StatusPerfect, results[0].Status)
	s.Equal(broken, results[1].LenderID)
	s.Equal(evaluator.StatusRejected, results[1].Status)
	s.Equal([]string{models.ReasonEvaluationError}, results[1].Reasons)
}

func (s *MatchServiceSuite) TestScheduleSweepCancelsInFlight() {
	lenderID := id.NewLenderID()
	s.addBorrower("dana@example.com", 700, "NV")
	s.addBorrower("lee@example.com", 710, "NV")
	s.savePolicy(lenderID, nil, ficoProgram(650))

	store := &blockingStore{InMemory: s.matches, started: make(chan struct{})}
	store.blockFirst.Store(true)
	svc := New(s.policies, s.borrowers, store, WithWorkers(1), WithOpsTracker(s.tracker))
	defer svc.Close()

	svc.ScheduleSweep(lenderID)
	select {
	case <-store.started:
	case <-time.After(2 * time.Second):
		s.FailNow("first sweep never started")
	}
	svc.ScheduleSweep(lenderID)

	s.Eventually(func() bool {
		views, err := svc.MatchesForLender(s.ctx, lenderID)
		return err == nil && len(views) == 2
	}, 2*time.Second, 10*time.Millisecond)
	s.Eventually(func() bool {
		actions := s.tracker.actions()
		return len(actions) == 2 &&
			actions[0] == string(audit.EventSweepCancelled) &&
			actions[1] == string(audit.EventSweepCompleted)
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *MatchServiceSuite) TestCloseStopsSweeps() {
	lenderID := id.NewLenderID()
	s.addBorrower("dana@example.com", 700, "NV")
	s.savePolicy(lenderID, nil, ficoProgram(650))

	store := &blockingStore{InMemory: s.matches, started: make(chan struct{})}
	store.blockFirst.Store(true)
	svc := New(s.policies, s.borrowers, store)

	svc.ScheduleSweep(lenderID)
	<-store.started

	closed := make(chan struct{})
	go func() {
		svc.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		s.FailNow("Close did not return")
	}

	svc.ScheduleSweep(lenderID)
	views, err := svc.MatchesForLender(s.ctx, lenderID)
	s.Require().NoError(err)
	s.Empty(views)
}

func (s *MatchServiceSuite) TestDiscard() {
	lenderID := id.NewLenderID()
	b := s.addBorrower("dana@example.com", 700, "NV")
	s.savePolicy(lenderID, nil, ficoProgram(650))
	_, err := s.service.EvaluateBorrower(s.ctx, b.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.service.DiscardBorrowers(s.ctx, []id.BorrowerID{b.ID}))
	results, err := s.service.MatchesForBorrower(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Empty(results)

	_, err = s.service.EvaluateBorrower(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.service.DiscardLender(s.ctx, lenderID))
	views, err := s.service.MatchesForLender(s.ctx, lenderID)
	s.Require().NoError(err)
	s.Empty(views)
}

func (s *MatchServiceSuite) TestStoreFailureIsInternal() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockStore(ctrl)
	borrower := s.addBorrower("dana@example.com", 700, "NV")
	s.savePolicy(id.NewLenderID(), nil, ficoProgram(650))

	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	svc := New(s.policies, s.borrowers, store)
	defer svc.Close()

	_, err := svc.EvaluateBorrower(s.ctx, borrower.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *MatchServiceSuite) TestSweepSkipsPruneOnFailure() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockStore(ctrl)
	lenderID := id.NewLenderID()
	s.addBorrower("dana@example.com", 700, "NV")
	s.savePolicy(lenderID, nil, ficoProgram(650))

	store.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	store.EXPECT().DeleteLenderExcept(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	svc := New(s.policies, s.borrowers, store)
	defer svc.Close()

	summary, err := svc.SweepLender(s.ctx, lenderID)
	s.Require().Error(err)
	s.Equal(0, summary.Evaluated)
}

func (s *MatchServiceSuite) TestLenderReadsRequireActiveLender() {
	ctrl := gomock.NewController(s.T())
	lookup := mocks.NewMockLenderLookup(ctrl)
	svc := New(s.policies, s.borrowers, s.matches, WithLenderLookup(lookup))
	defer svc.Close()

	active := id.NewLenderID()
	deleted := id.NewLenderID()
	b := s.addBorrower("dana@example.com", 700, "NV")
	s.savePolicy(active, nil, ficoProgram(650))
	_, err := svc.EvaluateBorrower(s.ctx, b.ID)
	s.Require().NoError(err)

	s.Run("active lender lists its matches", func() {
		lookup.EXPECT().IsActive(gomock.Any(), active).Return(true, nil)
		views, err := svc.MatchesForLender(s.ctx, active)
		s.Require().NoError(err)
		s.Len(views, 1)
	})

	s.Run("unknown or deleted lender is not found", func() {
		lookup.EXPECT().IsActive(gomock.Any(), deleted).Return(false, nil).Times(2)
		_, err := svc.MatchesForLender(s.ctx, deleted)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
		_, err = svc.MatchedBorrower(s.ctx, deleted, b.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
	})

	s.Run("lookup failure is internal", func() {
		lookup.EXPECT().IsActive(gomock.Any(), active).Return(false, errors.New("connection reset"))
		_, err := svc.MatchesForLender(s.ctx, active)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal), "got %v", err)
	})
}

func (s *MatchServiceSuite) TestMatchedBorrowerIsGatedOnMatch() {
	b := s.addBorrower("dana@example.com", 720, "TX")
	matched := id.NewLenderID()
	knockout := id.NewLenderID()
	s.savePolicy(matched, nil, ficoProgram(680))
	s.savePolicy(knockout, []string{"TX"}, ficoProgram(600))
	_, err := s.service.EvaluateBorrower(s.ctx, b.ID)
	s.Require().NoError(err)

	s.Run("matched lender sees the full record", func() {
		view, err := s.service.MatchedBorrower(s.ctx, matched, b.ID)
		s.Require().NoError(err)
		s.Equal(b.ID, view.Borrower.ID)
		s.Equal("555-0100", view.Borrower.Contact.Phone)
		s.Equal(matched, view.Match.LenderID)
		s.Equal(evaluator.StatusPerfect, view.Match.Status)
	})

	s.Run("rejected pair is forbidden", func() {
		_, err := s.service.MatchedBorrower(s.ctx, knockout, b.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden), "got %v", err)
	})

	s.Run("lender without a result is forbidden", func() {
		_, err := s.service.MatchedBorrower(s.ctx, id.NewLenderID(), b.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden), "got %v", err)
	})

	s.Run("matched record that no longer exists is not found", func() {
		gone := id.NewBorrowerID()
		s.Require().NoError(s.matches.Upsert(s.ctx, &models.MatchResult{
			BorrowerID: gone, LenderID: matched, Status: evaluator.StatusHigh, EvaluatedAt: time.Now(),
		}))
		_, err := s.service.MatchedBorrower(s.ctx, matched, gone)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
	})
}

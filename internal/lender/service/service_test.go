package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lendmatch/internal/lender/models"
	"lendmatch/internal/lender/service/mocks"
	policymodels "lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
	audit "lendmatch/pkg/platform/audit"
	"lendmatch/pkg/platform/sentinel"
)

type LenderServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	policies *mocks.MockPolicyResetter
	matches  *mocks.MockMatchDiscarder
	auditor  *mocks.MockAuditPublisher
	service  *Service
}

func TestLenderServiceSuite(t *testing.T) {
	suite.Run(t, new(LenderServiceSuite))
}

func (s *LenderServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.policies = mocks.NewMockPolicyResetter(s.ctrl)
	s.matches = mocks.NewMockMatchDiscarder(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.service = New(s.store,
		WithPolicyResetter(s.policies),
		WithMatchDiscarder(s.matches),
		WithAuditPublisher(s.auditor),
	)
}

func (s *LenderServiceSuite) TestRegister() {
	ctx := context.Background()

	s.Run("creates and audits", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l *models.Lender) error {
			s.Equal("ops@acme.com", l.Email)
			return nil
		})
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(string(audit.EventLenderRegistered), e.Action)
			s.Equal("Acme", e.Subject)
			return nil
		})

		l, err := s.service.Register(ctx, "Acme", "Ops@Acme.com")
		s.Require().NoError(err)
		s.True(l.IsActive())
	})

	s.Run("invalid input is a validation error", func() {
		_, err := s.service.Register(ctx, "A", "ops@acme.com")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("duplicate email is a conflict", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.Register(ctx, "Acme", "ops@acme.com")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *LenderServiceSuite) TestGetAndIsActive() {
	ctx := context.Background()
	lenderID := id.NewLenderID()
	deleted := &models.Lender{ID: lenderID, Status: models.StatusDeleted}

	s.store.EXPECT().FindByID(gomock.Any(), lenderID).Return(deleted, nil).Times(2)
	got, err := s.service.Get(ctx, lenderID)
	s.Require().NoError(err)
	s.Equal(models.StatusDeleted, got.Status)

	active, err := s.service.IsActive(ctx, lenderID)
	s.Require().NoError(err)
	s.False(active)

	missing := id.NewLenderID()
	s.store.EXPECT().FindByID(gomock.Any(), missing).Return(nil, sentinel.ErrNotFound).Times(2)
	_, err = s.service.Get(ctx, missing)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	active, err = s.service.IsActive(ctx, missing)
	s.Require().NoError(err)
	s.False(active)
}

func (s *LenderServiceSuite) TestDelete() {
	ctx := context.Background()
	lenderID := id.NewLenderID()

	s.Run("marks deleted then empties policy and discards matches", func() {
		gomock.InOrder(
			s.store.EXPECT().MarkDeleted(gomock.Any(), lenderID, gomock.Any()).Return(nil),
			s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil),
			s.policies.EXPECT().ReplaceEmpty(gomock.Any(), lenderID).Return(&policymodels.Snapshot{}, nil),
			s.matches.EXPECT().DiscardLender(gomock.Any(), lenderID).Return(nil),
		)
		s.Require().NoError(s.service.Delete(ctx, lenderID))
	})

	s.Run("unknown lender", func() {
		s.store.EXPECT().MarkDeleted(gomock.Any(), lenderID, gomock.Any()).Return(sentinel.ErrNotFound)
		err := s.service.Delete(ctx, lenderID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("policy reset failure surfaces as internal", func() {
		s.store.EXPECT().MarkDeleted(gomock.Any(), lenderID, gomock.Any()).Return(nil)
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		s.policies.EXPECT().ReplaceEmpty(gomock.Any(), lenderID).Return(nil, errors.New("db down"))

		err := s.service.Delete(ctx, lenderID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *LenderServiceSuite) TestAuditFailure() {
	ctx := context.Background()
	lenderID := id.NewLenderID()

	s.Run("without a transaction the delete stands", func() {
		s.store.EXPECT().MarkDeleted(gomock.Any(), lenderID, gomock.Any()).Return(nil)
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox unavailable"))
		s.policies.EXPECT().ReplaceEmpty(gomock.Any(), lenderID).Return(&policymodels.Snapshot{}, nil)
		s.matches.EXPECT().DiscardLender(gomock.Any(), lenderID).Return(nil)

		s.Require().NoError(s.service.Delete(ctx, lenderID))
	})

	s.Run("in a transaction the delete fails with the audit write", func() {
		tx := mocks.NewMockTransactor(s.ctrl)
		svc := New(s.store, WithAuditPublisher(s.auditor), WithTransactor(tx))
		tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
		s.store.EXPECT().MarkDeleted(gomock.Any(), lenderID, gomock.Any()).Return(nil)
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox unavailable"))

		err := svc.Delete(ctx, lenderID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *LenderServiceSuite) TestTransactorWrapsWrites() {
	tx := mocks.NewMockTransactor(s.ctrl)
	svc := New(s.store, WithTransactor(tx))

	tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Register(context.Background(), "Acme", "ops@acme.com")
	s.Require().NoError(err)
}

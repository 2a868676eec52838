package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	borrowermodels "lendmatch/internal/borrower/models"
	"lendmatch/internal/evaluator"
	"lendmatch/internal/fields"
	"lendmatch/internal/matching/handler/mocks"
	"lendmatch/internal/matching/models"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r, svc
}

func TestHandleLenderMatches(t *testing.T) {
	router, svc := newTestRouter(t)
	lenderID := id.NewLenderID()
	evaluated := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	matched := id.NewBorrowerID()
	rejected := id.NewBorrowerID()

	svc.EXPECT().MatchesForLender(gomock.Any(), lenderID).Return([]models.LenderMatchView{
		{
			BorrowerID:   matched,
			BorrowerName: "Dana Reyes",
			BusinessName: "Reyes Hauling",
			Amount:       decimal.NewFromInt(50000),
			Status:       evaluator.StatusHigh,
			ProgramName:  "Core",
			Reasons:      []string{"NSF count too high"},
			EvaluatedAt:  evaluated,
		},
		{
			BorrowerID:  rejected,
			Status:      evaluator.StatusRejected,
			Reasons:     []string{"state TX is restricted by lender policy"},
			EvaluatedAt: evaluated,
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/lenders/"+lenderID.String()+"/matches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, matched.String(), resp[0]["borrower_id"])
	assert.Equal(t, "Dana Reyes", resp[0]["borrower_name"])
	assert.Equal(t, "high", resp[0]["status"])
	assert.Equal(t, "Core", resp[0]["program_name"])
	assert.Equal(t, "50000", resp[0]["amount"])
	assert.Nil(t, resp[1]["program_name"])
	assert.Equal(t, "rejected", resp[1]["status"])
}

func TestHandleBorrowerMatches(t *testing.T) {
	borrowerID := id.NewBorrowerID()

	t.Run("empty list is an array", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().MatchesForBorrower(gomock.Any(), borrowerID).Return([]*models.MatchResult{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/borrowers/"+borrowerID.String()+"/matches", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("unknown borrower", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().MatchesForBorrower(gomock.Any(), borrowerID).Return(nil, dErrors.New(dErrors.CodeNotFound, "borrower not found"))

		req := httptest.NewRequest(http.MethodGet, "/borrowers/"+borrowerID.String()+"/matches", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleMatchedBorrower(t *testing.T) {
	lenderID := id.NewLenderID()
	borrowerID := id.NewBorrowerID()
	path := "/lenders/" + lenderID.String() + "/borrowers/" + borrowerID.String()

	t.Run("matched lender gets the full record", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().MatchedBorrower(gomock.Any(), lenderID, borrowerID).Return(&models.MatchedBorrowerView{
			Borrower: &borrowermodels.Borrower{
				ID: borrowerID,
				Contact: borrowermodels.Contact{
					FullName:     "Dana Reyes",
					Email:        "dana@example.com",
					Phone:        "555-0100",
					BusinessName: "Reyes Hauling",
				},
				Attributes: map[string]fields.Value{"guarantor_fico": fields.Number(720)},
			},
			Match: &models.MatchResult{
				BorrowerID:  borrowerID,
				LenderID:    lenderID,
				ProgramName: "Core",
				Status:      evaluator.StatusPerfect,
				Amount:      decimal.NewFromInt(50000),
			},
		}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp MatchedBorrowerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, borrowerID.String(), resp.BorrowerID)
		assert.Equal(t, "555-0100", resp.Contact.Phone)
		assert.Equal(t, "perfect", resp.Match.Status)
		require.NotNil(t, resp.Match.ProgramName)
		assert.Equal(t, "Core", *resp.Match.ProgramName)
		assert.True(t, fields.Number(720).Equal(resp.Attributes["guarantor_fico"]))
	})

	t.Run("no active match is forbidden", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().MatchedBorrower(gomock.Any(), lenderID, borrowerID).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "no active match with this borrower"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusForbidden, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "forbidden", resp["error"])
	})

	t.Run("unknown lender", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().MatchedBorrower(gomock.Any(), lenderID, borrowerID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "lender not found"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed borrower id", func(t *testing.T) {
		router, _ := newTestRouter(t)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lenders/"+lenderID.String()+"/borrowers/nope", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

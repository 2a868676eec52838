package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	borrowermodels "lendmatch/internal/borrower/models"
	"lendmatch/internal/fields"
	"lendmatch/internal/matching/models"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/httputil"
	"lendmatch/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service defines the match queries exposed to dashboards.
type Service interface {
	MatchesForLender(ctx context.Context, lenderID id.LenderID) ([]models.LenderMatchView, error)
	MatchesForBorrower(ctx context.Context, borrowerID id.BorrowerID) ([]*models.MatchResult, error)
	MatchedBorrower(ctx context.Context, lenderID id.LenderID, borrowerID id.BorrowerID) (*models.MatchedBorrowerView, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/lenders/{id}/matches", h.HandleLenderMatches)
	r.Get("/borrowers/{id}/matches", h.HandleBorrowerMatches)
	r.Get("/lenders/{id}/borrowers/{borrower_id}", h.HandleMatchedBorrower)
}

// LenderMatchResponse is one row of a lender dashboard.
type LenderMatchResponse struct {
	BorrowerID   string          `json:"borrower_id"`
	BorrowerName string          `json:"borrower_name"`
	BusinessName string          `json:"business_name"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	ProgramName  *string         `json:"program_name"`
	Reasons      []string        `json:"reasons"`
	EvaluatedAt  time.Time       `json:"evaluated_at"`
}

// BorrowerMatchResponse is one lender's verdict on a borrower.
type BorrowerMatchResponse struct {
	LenderID      string          `json:"lender_id"`
	PolicyVersion string          `json:"policy_version"`
	Status        string          `json:"status"`
	ProgramName   *string         `json:"program_name"`
	Amount        decimal.Decimal `json:"amount"`
	Reasons       []string        `json:"reasons"`
	EvaluatedAt   time.Time       `json:"evaluated_at"`
}

// MatchedBorrowerResponse is the full borrower record released to a lender
// it matched.
type MatchedBorrowerResponse struct {
	BorrowerID string                  `json:"borrower_id"`
	CreatedAt  time.Time               `json:"created_at"`
	Contact    borrowermodels.Contact  `json:"contact"`
	Attributes map[string]fields.Value `json:"attributes"`
	Match      BorrowerMatchResponse   `json:"match"`
}

// programName renders "no program selected" as JSON null.
func programName(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

func reasons(r []string) []string {
	if r == nil {
		return []string{}
	}
	return r
}

// HandleLenderMatches handles GET /lenders/{id}/matches.
func (h *Handler) HandleLenderMatches(w http.ResponseWriter, r *http.Request) {
	lenderID, err := id.ParseLenderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	views, err := h.service.MatchesForLender(r.Context(), lenderID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list lender matches",
			"lender_id", lenderID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := make([]LenderMatchResponse, len(views))
	for i, v := range views {
		resp[i] = LenderMatchResponse{
			BorrowerID:   v.BorrowerID.String(),
			BorrowerName: v.BorrowerName,
			BusinessName: v.BusinessName,
			Amount:       v.Amount,
			Status:       string(v.Status),
			ProgramName:  programName(v.ProgramName),
			Reasons:      reasons(v.Reasons),
			EvaluatedAt:  v.EvaluatedAt,
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleBorrowerMatches handles GET /borrowers/{id}/matches.
func (h *Handler) HandleBorrowerMatches(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := id.ParseBorrowerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	results, err := h.service.MatchesForBorrower(r.Context(), borrowerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := make([]BorrowerMatchResponse, len(results))
	for i, m := range results {
		resp[i] = fromMatch(m)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleMatchedBorrower handles GET /lenders/{id}/borrowers/{borrower_id}.
// Lenders without a non-rejected match for the borrower get 403.
func (h *Handler) HandleMatchedBorrower(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lenderID, err := id.ParseLenderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	borrowerID, err := id.ParseBorrowerID(chi.URLParam(r, "borrower_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.MatchedBorrower(ctx, lenderID, borrowerID)
	if err != nil {
		h.logger.WarnContext(ctx, "matched borrower lookup refused",
			"request_id", requestcontext.RequestID(ctx),
			"lender_id", lenderID.String(),
			"borrower_id", borrowerID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	attrs := view.Borrower.Attributes
	if attrs == nil {
		attrs = map[string]fields.Value{}
	}
	httputil.WriteJSON(w, http.StatusOK, MatchedBorrowerResponse{
		BorrowerID: view.Borrower.ID.String(),
		CreatedAt:  view.Borrower.CreatedAt,
		Contact:    view.Borrower.Contact,
		Attributes: attrs,
		Match:      fromMatch(view.Match),
	})
}

func fromMatch(m *models.MatchResult) BorrowerMatchResponse {
	return BorrowerMatchResponse{
		LenderID:      m.LenderID.String(),
		PolicyVersion: m.PolicyVersion.String(),
		Status:        string(m.Status),
		ProgramName:   programName(m.ProgramName),
		Amount:        m.Amount,
		Reasons:       reasons(m.Reasons),
		EvaluatedAt:   m.EvaluatedAt,
	}
}

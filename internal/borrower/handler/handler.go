package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lendmatch/internal/borrower/models"
	"lendmatch/internal/borrower/service"
	"lendmatch/internal/fields"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/httputil"
	"lendmatch/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service defines the borrower intake operations.
type Service interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*service.SubmitResult, error)
	Get(ctx context.Context, borrowerID id.BorrowerID) (*models.Borrower, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/borrowers", h.HandleSubmit)
	r.Get("/borrowers/{id}", h.HandleGet)
}

// SubmitRequest is the intake form body. Contact fields sit at the top level;
// evaluable criteria are keyed by field key under attributes.
type SubmitRequest struct {
	models.Contact
	Attributes map[string]any `json:"attributes"`
}

type BorrowerResponse struct {
	ID         string                  `json:"id"`
	CreatedAt  time.Time               `json:"created_at"`
	Contact    models.Contact          `json:"contact"`
	Attributes map[string]fields.Value `json:"attributes"`
}

type SubmitResponse struct {
	Borrower          *BorrowerResponse `json:"borrower"`
	MatchCount        int               `json:"match_count"`
	EvaluationPending bool              `json:"evaluation_pending,omitempty"`
}

func FromBorrower(b *models.Borrower) *BorrowerResponse {
	attrs := b.Attributes
	if attrs == nil {
		attrs = map[string]fields.Value{}
	}
	return &BorrowerResponse{
		ID:         b.ID.String(),
		CreatedAt:  b.CreatedAt,
		Contact:    b.Contact,
		Attributes: attrs,
	}
}

// HandleSubmit handles POST /borrowers. Validation happens in the service so
// contact and attribute problems are reported together.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.Submit(ctx, service.SubmitRequest{
		Contact:    req.Contact,
		Attributes: req.Attributes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "borrower submission failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &SubmitResponse{
		Borrower:          FromBorrower(result.Borrower),
		MatchCount:        result.MatchCount,
		EvaluationPending: result.EvaluationPending,
	})
}

// HandleGet handles GET /borrowers/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	borrowerID, err := id.ParseBorrowerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := h.service.Get(r.Context(), borrowerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromBorrower(b))
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lendmatch/internal/lender/models"
	id "lendmatch/pkg/domain"
	dErrors "lendmatch/pkg/domain-errors"
	"lendmatch/pkg/platform/httputil"
	"lendmatch/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service defines the lender account operations.
type Service interface {
	Register(ctx context.Context, name, address string) (*models.Lender, error)
	Get(ctx context.Context, lenderID id.LenderID) (*models.Lender, error)
	Delete(ctx context.Context, lenderID id.LenderID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts lender endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/lenders", h.HandleRegister)
	r.Get("/lenders/{id}", h.HandleGet)
	r.Delete("/lenders/{id}", h.HandleDelete)
}

// RegisterRequest is the body of POST /lenders.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *RegisterRequest) Validate() error {
	var details []string
	if r.Name == "" {
		details = append(details, "name: is required")
	}
	if r.Email == "" {
		details = append(details, "email: is required")
	}
	if len(details) > 0 {
		return dErrors.New(dErrors.CodeValidation, "invalid lender registration").WithDetails(details...)
	}
	return nil
}

type LenderResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func FromLender(l *models.Lender) *LenderResponse {
	return &LenderResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Email:     l.Email,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
		DeletedAt: l.DeletedAt,
	}
}

// HandleRegister handles POST /lenders.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	lender, err := h.service.Register(ctx, req.Name, req.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "lender registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromLender(lender))
}

// HandleGet handles GET /lenders/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lenderID, err := id.ParseLenderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	lender, err := h.service.Get(r.Context(), lenderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromLender(lender))
}

// HandleDelete handles DELETE /lenders/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lenderID, err := id.ParseLenderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, lenderID); err != nil {
		h.logger.WarnContext(ctx, "lender deletion failed",
			"request_id", requestcontext.RequestID(ctx),
			"lender_id", lenderID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

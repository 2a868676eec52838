package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/httputil"
	"lendmatch/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service defines the policy operations exposed over HTTP.
type Service interface {
	SaveDraft(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID) (*models.Snapshot, error)
	MergeExtraction(ctx context.Context, lenderID id.LenderID, extracted models.Draft, base id.VersionID) (*models.Snapshot, error)
	Current(ctx context.Context, lenderID id.LenderID) (*models.Snapshot, error)
	History(ctx context.Context, lenderID id.LenderID) ([]models.HistoryEntry, error)
	Version(ctx context.Context, lenderID id.LenderID, versionID id.VersionID) (*models.Snapshot, error)
}

// Handler wires policy authoring endpoints to the policy service.
type Handler struct {
	service Service
	schema  *DraftSchema
	logger  *slog.Logger
}

func New(service Service, schema *DraftSchema, logger *slog.Logger) *Handler {
	return &Handler{service: service, schema: schema, logger: logger}
}

// Register mounts policy endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/lenders/{id}/policy", func(r chi.Router) {
		r.Get("/", h.HandleCurrent)
		r.Put("/", h.HandleSave)
		r.Post("/extraction", h.HandleExtraction)
		r.Get("/history", h.HandleHistory)
		r.Get("/versions/{version_id}", h.HandleVersion)
	})
}

// HandleSave handles PUT /lenders/{id}/policy.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "policy saved", h.service.SaveDraft)
}

// HandleExtraction handles POST /lenders/{id}/policy/extraction. The payload
// is merged into the current draft before saving.
func (h *Handler) HandleExtraction(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "policy extraction merged", h.service.MergeExtraction)
}

type saveFunc func(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID) (*models.Snapshot, error)

func (h *Handler) save(w http.ResponseWriter, r *http.Request, msg string, fn saveFunc) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	lenderID, err := id.ParseLenderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	snap, err := fn(ctx, lenderID, req.Draft, req.ParsedBase())
	if err != nil {
		h.logger.WarnContext(ctx, "policy save failed",
			"request_id", requestID,
			"lender_id", lenderID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, msg,
		"request_id", requestID,
		"lender_id", lenderID.String(),
		"version_id", snap.VersionID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromSnapshot(snap))
}

// decode validates the raw payload against the draft schema, then decodes
// and validates the request.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*PolicyRequest, bool) {
	ctx := r.Context()
	body, err := httputil.ReadBody(r)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	if h.schema != nil {
		if err := h.schema.Validate(body); err != nil {
			h.logger.WarnContext(ctx, "policy payload rejected by schema",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, err)
			return nil, false
		}
	}
	req, err := httputil.DecodeBytes[PolicyRequest](body)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return req, true
}

// HandleCurrent handles GET /lenders/{id}/policy.
func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	lenderID, err := id.ParseLenderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	snap, err := h.service.Current(r.Context(), lenderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSnapshot(snap))
}

// HandleHistory handles GET /lenders/{id}/policy/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	lenderID, err := id.ParseLenderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.History(r.Context(), lenderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{Versions: entries})
}

// HandleVersion handles GET /lenders/{id}/policy/versions/{version_id}.
func (h *Handler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	lenderID, err := id.ParseLenderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	versionID, err := id.ParseVersionID(chi.URLParam(r, "version_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	snap, err := h.service.Version(r.Context(), lenderID, versionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSnapshot(snap))
}

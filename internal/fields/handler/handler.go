package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lendmatch/internal/fields"
	"lendmatch/pkg/platform/httputil"
)

// Catalog lists the evaluable criteria grouped for display.
type Catalog interface {
	Groups() []fields.Group
}

type Handler struct {
	catalog Catalog
}

func New(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/fields", h.HandleList)
}

type ListResponse struct {
	Groups []fields.Group `json:"groups"`
}

// HandleList handles GET /fields. Policy editors and intake forms render
// their inputs from this list.
func (h *Handler) HandleList(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, &ListResponse{Groups: h.catalog.Groups()})
}

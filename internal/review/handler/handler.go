package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tramcandoit/mlsecops-application/internal/registration"
	"github.com/tramcandoit/mlsecops-application/internal/review"
	dErrors "github.com/tramcandoit/mlsecops-application/pkg/domain-errors"
	"github.com/tramcandoit/mlsecops-application/pkg/platform/httputil"
	"github.com/tramcandoit/mlsecops-application/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/review-mocks.go -package=mocks Service

// Service is the review workflow the admin endpoints delegate to.
type Service interface {
	ListAll(ctx context.Context) ([]*registration.Record, error)
	ListByVerdict(ctx context.Context, verdict int) ([]*registration.Record, error)
	UpdateVerdict(ctx context.Context, id string, verdict int) error
}

// Handler wires the reviewer endpoints to the review service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts reviewer endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/users-data", h.handleListAll)
	r.Get("/admin/waiting-data", h.handleListFlagged)
	r.Get("/admin/non-fraud-data", h.handleListClean)
	r.Put("/admin/update-fraud/{id}", h.handleUpdateVerdict)
}

// ListResponse wraps projected records for the admin list endpoints.
type ListResponse struct {
	Success bool          `json:"success"`
	Data    []review.View `json:"data"`
}

// UpdateVerdictRequest is the PUT /admin/update-fraud/{id} payload. The
// pointer distinguishes an absent verdict from an explicit 0.
type UpdateVerdictRequest struct {
	Verdict *int `json:"verdict"`
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list records",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Data: review.ProjectAll(records)})
}

func (h *Handler) handleListFlagged(w http.ResponseWriter, r *http.Request) {
	h.listByVerdict(w, r, 1)
}

func (h *Handler) handleListClean(w http.ResponseWriter, r *http.Request) {
	h.listByVerdict(w, r, 0)
}

func (h *Handler) listByVerdict(w http.ResponseWriter, r *http.Request, verdict int) {
	records, err := h.service.ListByVerdict(r.Context(), verdict)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list records by verdict",
			"request_id", requestcontext.RequestID(r.Context()),
			"fraud_bool", verdict,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Data: review.ProjectAll(records)})
}

func (h *Handler) handleUpdateVerdict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	req, ok := httputil.Decode[UpdateVerdictRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.Verdict == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "verdict is required"))
		return
	}

	if err := h.service.UpdateVerdict(ctx, id, *req.Verdict); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) && !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "verdict update failed",
				"request_id", requestcontext.RequestID(ctx),
				"record_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

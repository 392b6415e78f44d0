package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tramcandoit/mlsecops-application/internal/registration"
	"github.com/tramcandoit/mlsecops-application/internal/registration/service"
	"github.com/tramcandoit/mlsecops-application/internal/review"
	"github.com/tramcandoit/mlsecops-application/pkg/platform/httputil"
	"github.com/tramcandoit/mlsecops-application/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/registration-mocks.go -package=mocks Service,Reader

// Service runs the registration pipeline.
type Service interface {
	Register(ctx context.Context, identity service.Identity, rawFeatures map[string]any) (*service.Result, error)
}

// Reader resolves individual records for the public status endpoint.
type Reader interface {
	GetByID(ctx context.Context, id string) (*registration.Record, error)
}

// Handler wires registration endpoints to the pipeline service.
type Handler struct {
	service Service
	reader  Reader
	logger  *slog.Logger
}

func New(service Service, reader Reader, logger *slog.Logger) *Handler {
	return &Handler{service: service, reader: reader, logger: logger}
}

// Register mounts registration endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Get("/register/{id}", h.handleGetByID)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.Decode[RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.Register(ctx, service.Identity{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}, req.UserData)
	if err != nil {
		h.logger.ErrorContext(ctx, "registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "registration accepted",
		"request_id", requestID,
		"record_id", result.ID,
		"fraud_bool", result.FraudBool,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Success:   true,
		ID:        result.ID,
		FraudBool: result.FraudBool,
	})
}

func (h *Handler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	record, err := h.reader.GetByID(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, review.Project(record))
}

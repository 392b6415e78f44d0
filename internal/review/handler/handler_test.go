package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tramcandoit/mlsecops-application/internal/features"
	"github.com/tramcandoit/mlsecops-application/internal/registration"
	"github.com/tramcandoit/mlsecops-application/internal/review/handler/mocks"
	dErrors "github.com/tramcandoit/mlsecops-application/pkg/domain-errors"
	"github.com/tramcandoit/mlsecops-application/pkg/testutil"
)

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func sampleRecord(id string, verdict int, created time.Time) *registration.Record {
	return &registration.Record{
		ID:        id,
		Name:      "Alice",
		Email:     "a@x.com",
		Phone:     "555-1111",
		Features:  features.Normalize(map[string]any{"income": "50000"}),
		FraudBool: verdict,
		CreatedAt: created,
		History: []registration.StatusEntry{{
			Timestamp: created,
			Status:    registration.InitialStatus(verdict),
			FraudBool: verdict,
			Actor:     registration.ActorSystem,
		}},
		Version: 1,
	}
}

func TestHandleListAll(t *testing.T) {
	t.Run("returns projected records in service order", func(t *testing.T) {
		router, mockService := newTestRouter(t)

		newer := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		older := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		mockService.EXPECT().ListAll(gomock.Any()).Return([]*registration.Record{
			sampleRecord("rec-2", 1, newer),
			sampleRecord("rec-1", 0, older),
		}, nil)

		req := testutil.NewRequest(t, http.MethodGet, "/admin/users-data")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "success", true)

		var body struct {
			Data []map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(testutil.ReadBody(t, rr), &body))
		require.Len(t, body.Data, 2)
		assert.Equal(t, "rec-2", body.Data[0]["id"])
		assert.Equal(t, "rec-1", body.Data[1]["id"])
		assert.Equal(t, float64(50000), body.Data[0]["income"])
	})

	t.Run("store failure maps to 500 without a message", func(t *testing.T) {
		router, mockService := newTestRouter(t)

		mockService.EXPECT().ListAll(gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "query failed"))

		req := testutil.NewRequest(t, http.MethodGet, "/admin/users-data")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
		testutil.AssertJSONContains(t, rr, "success", false)

		var body map[string]any
		require.NoError(t, json.Unmarshal(testutil.ReadBody(t, rr), &body))
		_, leaked := body["msg"]
		assert.False(t, leaked)
	})
}

func TestHandleListByVerdict(t *testing.T) {
	t.Run("waiting-data requests flagged records", func(t *testing.T) {
		router, mockService := newTestRouter(t)

		created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		mockService.EXPECT().ListByVerdict(gomock.Any(), 1).
			Return([]*registration.Record{sampleRecord("rec-7", 1, created)}, nil)

		req := testutil.NewRequest(t, http.MethodGet, "/admin/waiting-data")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		var body struct {
			Data []map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(testutil.ReadBody(t, rr), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, float64(1), body.Data[0]["fraud_bool"])
	})

	t.Run("non-fraud-data requests clean records", func(t *testing.T) {
		router, mockService := newTestRouter(t)

		mockService.EXPECT().ListByVerdict(gomock.Any(), 0).
			Return([]*registration.Record{}, nil)

		req := testutil.NewRequest(t, http.MethodGet, "/admin/non-fraud-data")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		var body struct {
			Success bool             `json:"success"`
			Data    []map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(testutil.ReadBody(t, rr), &body))
		assert.True(t, body.Success)
		assert.Empty(t, body.Data)
	})
}

func TestHandleUpdateVerdict(t *testing.T) {
	t.Run("applies the reviewed verdict", func(t *testing.T) {
		router, mockService := newTestRouter(t)

		mockService.EXPECT().UpdateVerdict(gomock.Any(), "rec-3", 0).Return(nil)

		verdict := 0
		req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/update-fraud/rec-3", UpdateVerdictRequest{Verdict: &verdict})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "success", true)
	})

	t.Run("missing verdict never reaches the service", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := testutil.NewRequestWithBody(t, http.MethodPut, "/admin/update-fraud/rec-3", `{}`)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		testutil.AssertFailureMsg(t, rr, "verdict is required")
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := testutil.NewRequestWithBody(t, http.MethodPut, "/admin/update-fraud/rec-3", "{not json")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		router, mockService := newTestRouter(t)

		mockService.EXPECT().UpdateVerdict(gomock.Any(), "nope", 1).
			Return(dErrors.New(dErrors.CodeNotFound, "Item not found"))

		verdict := 1
		req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/update-fraud/nope", UpdateVerdictRequest{Verdict: &verdict})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusNotFound)
		testutil.AssertFailureMsg(t, rr, "Item not found")
	})

	t.Run("invalid verdict maps to 400", func(t *testing.T) {
		router, mockService := newTestRouter(t)

		mockService.EXPECT().UpdateVerdict(gomock.Any(), "rec-3", 2).
			Return(dErrors.New(dErrors.CodeValidation, "verdict must be 0 or 1"))

		verdict := 2
		req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/update-fraud/rec-3", UpdateVerdictRequest{Verdict: &verdict})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		testutil.AssertFailureMsg(t, rr, "verdict must be 0 or 1")
	})

	t.Run("exhausted retries map to 409", func(t *testing.T) {
		router, mockService := newTestRouter(t)

		mockService.EXPECT().UpdateVerdict(gomock.Any(), "rec-3", 1).
			Return(dErrors.New(dErrors.CodeConflict, "record was modified concurrently"))

		verdict := 1
		req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/update-fraud/rec-3", UpdateVerdictRequest{Verdict: &verdict})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusConflict)
	})
}

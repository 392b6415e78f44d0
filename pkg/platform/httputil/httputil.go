// Package httputil centralizes JSON response writing and domain error
// translation so handlers stay thin and every endpoint shares one envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "github.com/tramcandoit/mlsecops-application/pkg/domain-errors"
)

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
}

var codeStatus = map[dErrors.Code]int{
	dErrors.CodeValidation:         http.StatusBadRequest,
	dErrors.CodeBadRequest:         http.StatusBadRequest,
	dErrors.CodeUnauthorized:       http.StatusUnauthorized,
	dErrors.CodeNotFound:           http.StatusNotFound,
	dErrors.CodeConflict:           http.StatusConflict,
	dErrors.CodeTimeout:            http.StatusServiceUnavailable,
	dErrors.CodeUnavailable:        http.StatusServiceUnavailable,
	dErrors.CodeInvariantViolation: http.StatusInternalServerError,
	dErrors.CodeInternal:           http.StatusInternalServerError,
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps a domain error to its HTTP status and the shared failure
// envelope. Internal errors deliberately omit detail from the response body;
// the caller is expected to have logged the cause.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := ""

	var de *dErrors.Error
	if errors.As(err, &de) {
		if s, ok := codeStatus[de.Code]; ok {
			status = s
		}
		if status < http.StatusInternalServerError {
			msg = de.Message
		}
	}

	WriteJSON(w, status, ErrorResponse{Success: false, Msg: msg})
}

// Decode parses a JSON request body into dst. On failure it writes a
// bad-request envelope and returns false; handlers should return immediately.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var dst T
	if err := json.NewDecoder(r.Body).Decode(&dst); err != nil {
		logger.WarnContext(r.Context(), "rejecting malformed request body", "error", err)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return dst, false
	}
	return dst, true
}

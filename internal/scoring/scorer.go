// Package scoring obtains a binary fraud verdict for a normalized feature
// vector from an external scoring capability. The pipeline depends only on
// the Scorer interface; whether the implementation is a subprocess, an RPC
// call, or an in-process model is an implementation detail.
package scoring

import (
	"context"

	"github.com/tramcandoit/mlsecops-application/internal/features"
	"github.com/tramcandoit/mlsecops-application/pkg/platform/sentinel"
)

// Scorer maps a feature vector to a verdict in {0, 1}.
type Scorer interface {
	Score(ctx context.Context, vector features.Vector) (int, error)
}

// Unavailable wraps err as a scoring-unavailable failure. Callers match it
// with errors.Is(err, sentinel.ErrUnavailable).
func unavailable(err error) error {
	if err == nil {
		return sentinel.ErrUnavailable
	}
	return &unavailableError{cause: err}
}

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return "scoring unavailable: " + e.cause.Error()
}

func (e *unavailableError) Unwrap() error { return e.cause }

func (e *unavailableError) Is(target error) bool {
	return target == sentinel.ErrUnavailable
}

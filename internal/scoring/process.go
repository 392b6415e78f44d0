package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/tramcandoit/mlsecops-application/internal/features"
	"github.com/tramcandoit/mlsecops-application/internal/platform/config"
	"github.com/tramcandoit/mlsecops-application/internal/platform/metrics"
)

// ProcessScorer spawns one scoring process per call. The vector is written to
// the process's stdin as a flat JSON object; stdout must contain a JSON
// payload with a fraud_bool field on clean exit. Stderr is captured for
// diagnostics only.
//
// There is no process pooling: one scoring request is one process lifecycle.
type ProcessScorer struct {
	command string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewProcessScorer builds a scorer from configuration.
func NewProcessScorer(cfg config.ScorerConfig, logger *slog.Logger, m *metrics.Metrics) *ProcessScorer {
	return &ProcessScorer{
		command: cfg.Command,
		args:    cfg.Args,
		timeout: cfg.Timeout,
		logger:  logger,
		metrics: m,
	}
}

// scorerOutput is the payload the scoring process prints on success. A missing
// fraud_bool is read as 0; any value outside {0, 1} fails the call.
type scorerOutput struct {
	FraudBool *int `json:"fraud_bool"`
}

// Score runs the scoring process once. Non-zero exit, unparsable output, or
// timeout all surface as a scoring-unavailable error; a default verdict is
// never substituted.
func (s *ProcessScorer) Score(ctx context.Context, vector features.Vector) (int, error) {
	payload, err := json.Marshal(vector)
	if err != nil {
		return 0, fmt.Errorf("marshal feature vector: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.command, s.args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	s.metrics.ObserveScoring(time.Since(start))

	if runErr != nil {
		s.metrics.IncrementScoringFailure()
		if ctx.Err() == context.DeadlineExceeded {
			s.logger.ErrorContext(ctx, "scoring process timed out",
				"command", s.command,
				"timeout", s.timeout,
			)
			return 0, unavailable(fmt.Errorf("process timed out after %s", s.timeout))
		}

		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			s.logger.ErrorContext(ctx, "scoring process exited non-zero",
				"command", s.command,
				"exit_code", exitErr.ExitCode(),
				"stderr", truncate(stderr.String(), 512),
			)
			return 0, unavailable(fmt.Errorf("process exited with code %d", exitErr.ExitCode()))
		}

		s.logger.ErrorContext(ctx, "scoring process failed to start",
			"command", s.command,
			"error", runErr,
		)
		return 0, unavailable(runErr)
	}

	var out scorerOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		s.metrics.IncrementScoringFailure()
		s.logger.ErrorContext(ctx, "scoring process produced unparsable output",
			"command", s.command,
			"stdout", truncate(stdout.String(), 512),
			"error", err,
		)
		return 0, unavailable(fmt.Errorf("unparsable scorer output: %w", err))
	}

	verdict := 0
	if out.FraudBool != nil {
		verdict = *out.FraudBool
	}
	if verdict != 0 && verdict != 1 {
		s.metrics.IncrementScoringFailure()
		return 0, unavailable(fmt.Errorf("scorer returned invalid verdict %d", verdict))
	}
	return verdict, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

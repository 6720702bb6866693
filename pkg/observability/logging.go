package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/lattice/pkg/domain"
)

// LoggingHooks reports run boundaries and failed steps at info level and
// every other step at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "environment started", "selector", e.Selector, "run_id", e.RunID)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			attrs := []any{"selector", e.Selector, "run_id", e.RunID, "status", e.Status, "duration", e.Duration}
			if e.Err != nil {
				logger.ErrorContext(ctx, "environment finished", append(attrs, "error", e.Err)...)
				return
			}
			logger.InfoContext(ctx, "environment finished", attrs...)
		},
		OnStepFinish: func(ctx context.Context, e *domain.StepEvent) {
			if e.Result == nil {
				return
			}
			level := slog.LevelDebug
			if e.Result.Failed() {
				level = slog.LevelInfo
			}
			logger.Log(ctx, level, "step finished",
				"selector", e.Selector,
				"index", e.Index,
				"command", e.Step.Line,
				"outcome", Outcome(*e.Result),
				"exit_code", e.Result.ExitCode,
			)
		},
	}
}

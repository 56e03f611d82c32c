package backend

import (
	"context"

	"go.uber.org/zap"

	"github.com/piwi3910/nestcut/internal/engine"
	"github.com/piwi3910/nestcut/internal/model"
)

// Runner selects between the accelerated and in-process backends. The
// capability check runs once at construction; a per-call failure of the
// accelerated backend falls back to the in-process solver for that call
// only and never disables future attempts.
type Runner struct {
	accelerated *Accelerated // nil when the worker binary is absent
	inProcess   *InProcess
	logger      *zap.Logger
}

// RunnerConfig configures backend selection.
type RunnerConfig struct {
	// WorkerPath is the accelerated worker binary. Empty disables the
	// accelerated path entirely.
	WorkerPath string
	// Logger may be nil.
	Logger *zap.Logger
	// Progress is forwarded to the in-process solver; the accelerated
	// worker reports no incremental progress.
	Progress engine.ProgressFunc
}

func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		inProcess: NewInProcess(logger, cfg.Progress),
		logger:    logger,
	}
	if cfg.WorkerPath != "" {
		accel := NewAccelerated(cfg.WorkerPath, logger)
		if accel.Available() {
			r.accelerated = accel
			logger.Info("accelerated nesting worker detected",
				zap.String("worker", cfg.WorkerPath))
		} else {
			logger.Info("accelerated nesting worker not found, using in-process solver",
				zap.String("worker", cfg.WorkerPath))
		}
	}
	return r
}

// Accelerated reports whether the accelerated backend passed its capability
// check at construction.
func (r *Runner) Accelerated() bool {
	return r.accelerated != nil
}

// Pack runs the request on the preferred backend. Accelerated failures are
// logged and recovered by re-running in process; they are never surfaced to
// the caller. Context cancellation is not recovered.
func (r *Runner) Pack(ctx context.Context, req Request) (model.NestResult, error) {
	if r.accelerated != nil {
		res, err := r.accelerated.Pack(ctx, req)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		r.logger.Warn("accelerated backend failed, falling back to in-process solver",
			zap.Error(err))
	}
	return r.inProcess.Pack(ctx, req)
}

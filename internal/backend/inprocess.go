package backend

import (
	"context"

	"go.uber.org/zap"

	"github.com/piwi3910/nestcut/internal/engine"
	"github.com/piwi3910/nestcut/internal/model"
)

// InProcess executes the heuristic solver directly and synchronously, with
// zero serialization cost. It is always available and serves as the
// fallback for the accelerated backend.
type InProcess struct {
	logger   *zap.Logger
	progress engine.ProgressFunc
}

// NewInProcess creates the in-process backend. logger may be nil; progress
// may be nil to disable reporting.
func NewInProcess(logger *zap.Logger, progress engine.ProgressFunc) *InProcess {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InProcess{logger: logger, progress: progress}
}

func (b *InProcess) Name() string { return "in-process" }

func (b *InProcess) Pack(ctx context.Context, req Request) (model.NestResult, error) {
	opts := []engine.Option{engine.WithLogger(b.logger)}
	if b.progress != nil {
		opts = append(opts, engine.WithProgress(b.progress))
	}
	nester := engine.New(req.Settings, opts...)
	return nester.Nest(ctx, req.Parts, req.Stocks)
}

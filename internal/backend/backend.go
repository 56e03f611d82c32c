// Package backend provides two interchangeable implementations of the
// nesting contract: an in-process heuristic solver and an out-of-process
// accelerated solver reached over a serialized request/response protocol
// with a hard time budget. The Runner prefers the accelerated backend when
// available and falls back to the in-process solver on any failure.
package backend

import (
	"context"
	"errors"

	"github.com/piwi3910/nestcut/internal/model"
)

// Request is a full snapshot of one packing call: stock sizes per material,
// the expanded part instances, and settings. Requests are not reused across
// calls.
type Request struct {
	Stocks   map[string]model.StockSpec
	Parts    []*model.PartInstance
	Settings model.NestSettings
}

// Backend packs the requested parts onto boards. Implementations must treat
// the request's stocks and settings as read-only and must honor the context
// for cancellation.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Pack runs one nesting call.
	Pack(ctx context.Context, req Request) (model.NestResult, error)
}

// Backend failure classes. All of them are recoverable at the orchestration
// boundary: they select the fallback path for the failing call only.
var (
	// ErrUnavailable means the worker binary is absent or not executable.
	ErrUnavailable = errors.New("nesting worker unavailable")
	// ErrTimeout means the worker exceeded its wall-clock budget and was
	// forcibly terminated.
	ErrTimeout = errors.New("nesting worker timed out")
	// ErrProtocol means the worker exited non-zero or produced a missing
	// or malformed response.
	ErrProtocol = errors.New("nesting worker protocol error")
)

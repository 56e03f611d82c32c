package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/nestcut/internal/model"
)

// defaultTimeBudget applies when the request carries no time budget.
const defaultTimeBudget = 60 * time.Second

// Accelerated invokes an independent worker process that implements the
// wire contract: it receives a request file and a response file path on the
// command line, and must exit 0 for its response to be trusted. The calling
// goroutine blocks until completion, timeout or process exit; on timeout
// the child is killed, never left running.
type Accelerated struct {
	workerPath string
	logger     *zap.Logger
}

// NewAccelerated creates the accelerated backend for the given worker
// binary path. logger may be nil.
func NewAccelerated(workerPath string, logger *zap.Logger) *Accelerated {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accelerated{workerPath: workerPath, logger: logger}
}

func (a *Accelerated) Name() string { return "accelerated" }

// Available reports whether the worker binary exists. It is intended to be
// called once, at runner construction, not per call.
func (a *Accelerated) Available() bool {
	if a.workerPath == "" {
		return false
	}
	if strings.ContainsRune(a.workerPath, os.PathSeparator) {
		info, err := os.Stat(a.workerPath)
		return err == nil && !info.IsDir()
	}
	_, err := exec.LookPath(a.workerPath)
	return err == nil
}

func (a *Accelerated) Pack(ctx context.Context, req Request) (model.NestResult, error) {
	budget := req.Settings.TimeBudget
	if budget <= 0 {
		budget = defaultTimeBudget
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	dir, err := os.MkdirTemp("", "nestcut-worker-")
	if err != nil {
		return model.NestResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "request.json")
	outPath := filepath.Join(dir, "response.json")

	payload, err := json.Marshal(EncodeRequest(req))
	if err != nil {
		return model.NestResult{}, fmt.Errorf("%w: encoding request: %v", ErrProtocol, err)
	}
	if err := os.WriteFile(inPath, payload, 0o644); err != nil {
		return model.NestResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.workerPath, inPath, outPath)
	cmd.Stderr = &stderr
	// Bound the wait on inherited pipes so a killed worker's orphaned
	// children cannot stall the caller.
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		a.logger.Warn("worker exceeded time budget, killed",
			zap.Duration("budget", budget))
		return model.NestResult{}, fmt.Errorf("%w after %s", ErrTimeout, budget)
	case runErr != nil:
		var execErr *exec.Error
		if errors.As(runErr, &execErr) || errors.Is(runErr, os.ErrNotExist) {
			return model.NestResult{}, fmt.Errorf("%w: %v", ErrUnavailable, runErr)
		}
		return model.NestResult{}, fmt.Errorf("%w: %v (stderr: %s)", ErrProtocol, runErr, strings.TrimSpace(stderr.String()))
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		return model.NestResult{}, fmt.Errorf("%w: missing response: %v", ErrProtocol, err)
	}
	var resp NestingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.NestResult{}, fmt.Errorf("%w: malformed response: %v", ErrProtocol, err)
	}

	a.logger.Debug("worker completed",
		zap.Duration("elapsed", elapsed),
		zap.Int("boards", resp.Stats.BoardsUsed))

	return a.applyResponse(req, resp), nil
}

// applyResponse re-associates result rows with the in-memory instances via
// their opaque ids and mutates each placed instance exactly once. A row
// referencing an unknown part or board id is a recoverable defect: it is
// logged and skipped, never aborts the run.
func (a *Accelerated) applyResponse(req Request, resp NestingResponse) model.NestResult {
	byID := make(map[string]*model.PartInstance, len(req.Parts))
	for _, inst := range req.Parts {
		byID[inst.ID] = inst
	}

	boards := make(map[int]*model.BoardResult, len(resp.Boards))
	ordered := make([]*model.BoardResult, 0, len(resp.Boards))
	for _, wb := range resp.Boards {
		board := &model.BoardResult{
			ID:       wb.ID,
			Material: wb.Material,
			Width:    wb.Width,
			Height:   wb.Height,
		}
		boards[wb.ID] = board
		ordered = append(ordered, board)
	}

	for _, row := range resp.Placements {
		inst, ok := byID[row.PartID]
		if !ok {
			a.logger.Warn("response row references unknown part id, skipped",
				zap.String("part_id", row.PartID))
			continue
		}
		board, ok := boards[row.BoardID]
		if !ok {
			a.logger.Warn("response row references unknown board id, skipped",
				zap.String("part_id", row.PartID),
				zap.Int("board_id", row.BoardID))
			continue
		}
		if inst.BoardID != 0 {
			a.logger.Warn("duplicate response row for part id, skipped",
				zap.String("part_id", row.PartID))
			continue
		}

		if (row.Rotation == 90) != inst.Rotated {
			inst.Rotate()
		}
		inst.X = row.X
		inst.Y = row.Y
		inst.BoardID = board.ID
		board.Parts = append(board.Parts, inst)
	}

	var result model.NestResult
	for _, board := range ordered {
		result.Boards = append(result.Boards, *board)
	}
	return result
}

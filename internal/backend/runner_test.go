package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestcut/internal/model"
)

func TestRunner_NoWorkerConfigured(t *testing.T) {
	r := NewRunner(RunnerConfig{})

	assert.False(t, r.Accelerated())

	result, err := r.Pack(context.Background(), testRequest(testInstance("p1", 400, 600)))
	require.NoError(t, err)
	require.Len(t, result.Boards, 1)
}

func TestRunner_MissingWorkerFailsProbe(t *testing.T) {
	r := NewRunner(RunnerConfig{WorkerPath: "/no/such/worker"})

	assert.False(t, r.Accelerated())
}

func TestRunner_DetectsWorker(t *testing.T) {
	path := fakeWorker(t, "exit 0\n")

	r := NewRunner(RunnerConfig{WorkerPath: path})

	assert.True(t, r.Accelerated())
}

func TestRunner_FailingWorkerFallsBack(t *testing.T) {
	r := NewRunner(RunnerConfig{WorkerPath: fakeWorker(t, "exit 1\n")})
	require.True(t, r.Accelerated())

	p1 := testInstance("p1", 400, 600)
	p2 := testInstance("p2", 600, 400)
	result, err := r.Pack(context.Background(), testRequest(p1, p2))

	require.NoError(t, err)
	require.Len(t, result.Boards, 1)
	assert.Len(t, result.Boards[0].Parts, 2)
	assert.NotEqual(t, 0, p1.BoardID)
	assert.NotEqual(t, 0, p2.BoardID)
}

func TestRunner_SlowWorkerFallsBackWithinBudget(t *testing.T) {
	r := NewRunner(RunnerConfig{WorkerPath: fakeWorker(t, "exec sleep 10\n")})
	require.True(t, r.Accelerated())

	req := testRequest(testInstance("p1", 400, 600))
	req.Settings.TimeBudget = 100 * time.Millisecond

	result, err := r.Pack(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Boards, 1)
}

func TestRunner_FallbackMatchesDirectInProcessRun(t *testing.T) {
	parts := []model.Part{
		model.NewPart("A", "Plywood", 600, 400, 3),
		model.NewPart("B", "Plywood", 300, 200, 4),
	}

	broken := NewRunner(RunnerConfig{WorkerPath: fakeWorker(t, "exit 1\n")})
	viaFallback, err := broken.Pack(context.Background(), Request{
		Stocks:   map[string]model.StockSpec{"Plywood": {Width: 2440, Height: 1220}},
		Parts:    model.ExpandParts(parts),
		Settings: model.DefaultSettings(),
	})
	require.NoError(t, err)

	direct, err := NewInProcess(nil, nil).Pack(context.Background(), Request{
		Stocks:   map[string]model.StockSpec{"Plywood": {Width: 2440, Height: 1220}},
		Parts:    model.ExpandParts(parts),
		Settings: model.DefaultSettings(),
	})
	require.NoError(t, err)

	require.Equal(t, len(direct.Boards), len(viaFallback.Boards))
	for i := range direct.Boards {
		require.Equal(t, len(direct.Boards[i].Parts), len(viaFallback.Boards[i].Parts))
		for j := range direct.Boards[i].Parts {
			a, b := direct.Boards[i].Parts[j], viaFallback.Boards[i].Parts[j]
			assert.Equal(t, a.X, b.X)
			assert.Equal(t, a.Y, b.Y)
			assert.Equal(t, a.Part.Name, b.Part.Name)
		}
	}
}

func TestRunner_CancelledContextNotRecovered(t *testing.T) {
	r := NewRunner(RunnerConfig{WorkerPath: fakeWorker(t, "exec sleep 10\n")})
	require.True(t, r.Accelerated())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := r.Pack(ctx, testRequest(testInstance("p1", 400, 600)))

	require.ErrorIs(t, err, context.Canceled)
}

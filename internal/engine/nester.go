package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/piwi3910/nestcut/internal/model"
)

// ProgressFunc is invoked once per completed board sweep with the number of
// boards opened so far for the material and the overall placement counts.
type ProgressFunc func(material string, boards, placed, total int)

// Nester drives the per-material, per-board packing loop. One Nester value
// serves one run; it holds no state shared across runs.
type Nester struct {
	settings model.NestSettings
	order    OrderStrategy
	progress ProgressFunc
	logger   *zap.Logger
}

// Option configures a Nester.
type Option func(*Nester)

// WithLogger attaches a structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(n *Nester) { n.logger = l }
}

// WithProgress installs a per-board-sweep progress callback.
func WithProgress(p ProgressFunc) Option {
	return func(n *Nester) { n.progress = p }
}

// WithOrderStrategy overrides the default largest-area-first ordering.
func WithOrderStrategy(o OrderStrategy) Option {
	return func(n *Nester) { n.order = o }
}

func New(settings model.NestSettings, opts ...Option) *Nester {
	n := &Nester{
		settings: settings,
		order:    LargestAreaFirst,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Nest packs the instances onto as few boards as possible, one material at
// a time. Materials are processed in sorted key order so identical input
// always produces identical output. A material whose leading part cannot
// fit any board fails with a PartTooLargeError; remaining materials still
// run, and all per-material errors are joined into the returned error.
//
// Cancellation is checked only at board boundaries: a cancelled run keeps
// every completed board, discards the board being built and returns the
// context error.
func (n *Nester) Nest(ctx context.Context, instances []*model.PartInstance, stocks map[string]model.StockSpec) (model.NestResult, error) {
	byMaterial := make(map[string][]*model.PartInstance)
	for _, inst := range instances {
		byMaterial[inst.Part.Material] = append(byMaterial[inst.Part.Material], inst)
	}

	materials := make([]string, 0, len(byMaterial))
	for mat := range byMaterial {
		materials = append(materials, mat)
	}
	sort.Strings(materials)

	var result model.NestResult
	var errs []error
	nextBoardID := 1

	for _, mat := range materials {
		stock, ok := stocks[mat]
		if !ok {
			errs = append(errs, fmt.Errorf("no stock size configured for material %q", mat))
			continue
		}

		boards, err := n.nestMaterial(ctx, mat, byMaterial[mat], stock, &nextBoardID)
		for _, b := range boards {
			result.Boards = append(result.Boards, b.Result())
		}
		if err != nil {
			if ctx.Err() != nil {
				return result, err
			}
			errs = append(errs, err)
		}
	}

	return result, errors.Join(errs...)
}

// nestMaterial runs the board loop for a single material group. The board
// id counter is shared across materials so ids stay unique per run.
func (n *Nester) nestMaterial(ctx context.Context, material string, queue []*model.PartInstance, stock model.StockSpec, nextBoardID *int) ([]*Board, error) {
	n.order(queue)

	total := len(queue)
	placedTotal := 0
	var boards []*Board

	n.logger.Debug("nesting material",
		zap.String("material", material),
		zap.Int("parts", total),
		zap.Float64("stock_width", stock.Width),
		zap.Float64("stock_height", stock.Height))

	for len(queue) > 0 {
		// Board boundary: the only cancellation point. The board built
		// below is only kept once its sweep completes.
		select {
		case <-ctx.Done():
			return boards, ctx.Err()
		default:
		}

		board := NewBoard(*nextBoardID, material, stock.Width, stock.Height)

		// Sweep the entire remaining queue against this board; parts that
		// fail here retry on the next board.
		var unplaced []*model.PartInstance
		placed := 0
		for _, inst := range queue {
			if tryPlace(inst, board, n.settings) {
				placed++
			} else {
				unplaced = append(unplaced, inst)
			}
		}

		if placed == 0 {
			// A full sweep on an empty board placed nothing: the leading
			// part cannot fit this stock size in any orientation.
			lead := queue[0]
			return boards, &model.PartTooLargeError{
				PartName:    lead.Part.Name,
				PartWidth:   lead.Width,
				PartHeight:  lead.Height,
				Material:    material,
				StockWidth:  stock.Width,
				StockHeight: stock.Height,
			}
		}

		*nextBoardID++
		boards = append(boards, board)
		placedTotal += placed
		queue = unplaced

		if n.progress != nil {
			n.progress(material, len(boards), placedTotal, total)
		}
		n.logger.Debug("board swept",
			zap.String("material", material),
			zap.Int("board", board.ID),
			zap.Int("placed", placedTotal),
			zap.Int("total", total))
	}

	return boards, nil
}

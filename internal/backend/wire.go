package backend

import (
	"fmt"
	"time"

	"github.com/piwi3910/nestcut/internal/model"
)

// Wire exchange format for the accelerated worker. The worker receives a
// NestingRequest as a JSON file, writes a NestingResponse as a JSON file
// and must exit with status 0 for the response to be trusted.

// NestingRequest is the serialized packing request.
type NestingRequest struct {
	Boards   []WireBoardSpec `json:"boards"`
	Parts    []WirePart      `json:"parts"`
	Settings WireSettings    `json:"settings"`
}

// WireBoardSpec is the stock size for one material.
type WireBoardSpec struct {
	Material string  `json:"material"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// WirePart is one part instance to place. Dimensions are the nominal,
// unrotated ones; the worker reports rotation in its result rows.
type WirePart struct {
	ID             string  `json:"id"`
	Material       string  `json:"material"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	GrainDirection string  `json:"grain_direction"`
}

// WireSettings carries the run configuration.
type WireSettings struct {
	Kerf          float64 `json:"kerf"`
	AllowRotation bool    `json:"allow_rotation"`
	TimeoutMS     int64   `json:"timeout_ms"`
}

// NestingResponse is the serialized packing result.
type NestingResponse struct {
	Placements []WirePlacement `json:"placements"`
	Boards     []WireBoard     `json:"boards"`
	Stats      WireStats       `json:"stats"`
}

// WirePlacement assigns one part instance to a board position. Rotation is
// in degrees, 0 or 90.
type WirePlacement struct {
	PartID   string  `json:"part_id"`
	BoardID  int     `json:"board_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
}

// WireBoard is the per-board summary.
type WireBoard struct {
	ID              int     `json:"id"`
	Material        string  `json:"material"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	PartsCount      int     `json:"parts_count"`
	UsedArea        float64 `json:"used_area"`
	WastePercentage float64 `json:"waste_percentage"`
}

// WireStats summarizes the run.
type WireStats struct {
	TimeMS     int64 `json:"time_ms"`
	BoardsUsed int   `json:"boards_used"`
}

// Wire grain direction values.
const (
	wireGrainAny        = "any"
	wireGrainHorizontal = "horizontal"
	wireGrainVertical   = "vertical"
	wireGrainFixed      = "fixed" // not rotatable regardless of grain
)

// grainToWire maps a part's rotation constraints onto the wire vocabulary.
func grainToWire(p model.Part) string {
	if !p.Rotatable {
		return wireGrainFixed
	}
	switch p.Grain {
	case model.GrainHorizontal:
		return wireGrainHorizontal
	case model.GrainVertical:
		return wireGrainVertical
	default:
		return wireGrainAny
	}
}

// grainFromWire reverses grainToWire. Unknown values behave like "any".
func grainFromWire(s string) (grain model.Grain, rotatable bool) {
	switch s {
	case wireGrainHorizontal:
		return model.GrainHorizontal, true
	case wireGrainVertical:
		return model.GrainVertical, true
	case wireGrainFixed:
		return model.GrainNone, false
	default:
		return model.GrainNone, true
	}
}

// EncodeRequest builds the wire form of a packing request. Instance ids are
// carried as-is; they re-associate result rows with in-memory instances on
// the way back.
func EncodeRequest(req Request) NestingRequest {
	wr := NestingRequest{
		Settings: WireSettings{
			Kerf:          req.Settings.KerfWidth,
			AllowRotation: req.Settings.AllowRotation,
			TimeoutMS:     req.Settings.TimeBudget.Milliseconds(),
		},
	}
	for material, stock := range req.Stocks {
		wr.Boards = append(wr.Boards, WireBoardSpec{
			Material: material,
			Width:    stock.Width,
			Height:   stock.Height,
		})
	}
	for _, inst := range req.Parts {
		wr.Parts = append(wr.Parts, WirePart{
			ID:             inst.ID,
			Material:       inst.Part.Material,
			Width:          inst.Part.Width,
			Height:         inst.Part.Height,
			GrainDirection: grainToWire(inst.Part),
		})
	}
	return wr
}

// DecodeRequest rebuilds a packing request from its wire form. Used by the
// worker binary; instance ids are preserved, not regenerated.
func DecodeRequest(wr NestingRequest) (Request, error) {
	req := Request{
		Stocks: make(map[string]model.StockSpec, len(wr.Boards)),
		Settings: model.NestSettings{
			KerfWidth:     wr.Settings.Kerf,
			AllowRotation: wr.Settings.AllowRotation,
			TimeBudget:    time.Duration(wr.Settings.TimeoutMS) * time.Millisecond,
		},
	}
	if req.Settings.KerfWidth < 0 {
		return Request{}, fmt.Errorf("negative kerf %.2f", wr.Settings.Kerf)
	}
	for _, b := range wr.Boards {
		if b.Width <= 0 || b.Height <= 0 {
			return Request{}, fmt.Errorf("invalid stock size %.0fx%.0f for material %q", b.Width, b.Height, b.Material)
		}
		req.Stocks[b.Material] = model.StockSpec{Width: b.Width, Height: b.Height}
	}
	for _, p := range wr.Parts {
		grain, rotatable := grainFromWire(p.GrainDirection)
		part := model.Part{
			Name:      p.ID,
			Material:  p.Material,
			Width:     p.Width,
			Height:    p.Height,
			Grain:     grain,
			Rotatable: rotatable,
			Quantity:  1,
		}
		req.Parts = append(req.Parts, &model.PartInstance{
			ID:     p.ID,
			Part:   part,
			Width:  p.Width,
			Height: p.Height,
		})
	}
	return req, nil
}

// EncodeResponse builds the wire form of a nesting result.
func EncodeResponse(res model.NestResult, elapsed time.Duration) NestingResponse {
	resp := NestingResponse{
		Stats: WireStats{
			TimeMS:     elapsed.Milliseconds(),
			BoardsUsed: len(res.Boards),
		},
	}
	for _, board := range res.Boards {
		resp.Boards = append(resp.Boards, WireBoard{
			ID:              board.ID,
			Material:        board.Material,
			Width:           board.Width,
			Height:          board.Height,
			PartsCount:      len(board.Parts),
			UsedArea:        board.UsedArea(),
			WastePercentage: board.WastePercentage(),
		})
		for _, inst := range board.Parts {
			rotation := 0
			if inst.Rotated {
				rotation = 90
			}
			resp.Placements = append(resp.Placements, WirePlacement{
				PartID:   inst.ID,
				BoardID:  board.ID,
				X:        inst.X,
				Y:        inst.Y,
				Rotation: rotation,
			})
		}
	}
	return resp
}

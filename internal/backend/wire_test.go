package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestcut/internal/model"
)

func TestEncodeRequest_CarriesNominalDimensions(t *testing.T) {
	inst := model.NewPartInstance(model.NewPart("Side", "Plywood", 400, 600, 1))
	inst.Rotate() // current dims are swapped, the wire form must not be

	wr := EncodeRequest(Request{
		Stocks: map[string]model.StockSpec{"Plywood": {Width: 2440, Height: 1220}},
		Parts:  []*model.PartInstance{inst},
		Settings: model.NestSettings{
			KerfWidth:     3,
			AllowRotation: true,
			TimeBudget:    30 * time.Second,
		},
	})

	require.Len(t, wr.Boards, 1)
	assert.Equal(t, "Plywood", wr.Boards[0].Material)
	require.Len(t, wr.Parts, 1)
	assert.Equal(t, inst.ID, wr.Parts[0].ID)
	assert.Equal(t, 400.0, wr.Parts[0].Width)
	assert.Equal(t, 600.0, wr.Parts[0].Height)
	assert.Equal(t, "any", wr.Parts[0].GrainDirection)
	assert.Equal(t, 3.0, wr.Settings.Kerf)
	assert.Equal(t, int64(30000), wr.Settings.TimeoutMS)
}

func TestGrainToWire(t *testing.T) {
	p := model.NewPart("A", "P", 100, 100, 1)
	assert.Equal(t, "any", grainToWire(p))

	p.Grain = model.GrainHorizontal
	assert.Equal(t, "horizontal", grainToWire(p))

	p.Grain = model.GrainVertical
	assert.Equal(t, "vertical", grainToWire(p))

	// Not rotatable wins over grain.
	p.Rotatable = false
	assert.Equal(t, "fixed", grainToWire(p))
}

func TestGrainFromWire(t *testing.T) {
	grain, rotatable := grainFromWire("horizontal")
	assert.Equal(t, model.GrainHorizontal, grain)
	assert.True(t, rotatable)

	grain, rotatable = grainFromWire("fixed")
	assert.Equal(t, model.GrainNone, grain)
	assert.False(t, rotatable)

	// Unknown values behave like "any".
	grain, rotatable = grainFromWire("diagonal")
	assert.Equal(t, model.GrainNone, grain)
	assert.True(t, rotatable)
}

func TestDecodeRequest_PreservesIDs(t *testing.T) {
	wr := NestingRequest{
		Boards: []WireBoardSpec{{Material: "MDF", Width: 2440, Height: 1220}},
		Parts: []WirePart{
			{ID: "ab12cd34", Material: "MDF", Width: 300, Height: 200, GrainDirection: "vertical"},
		},
		Settings: WireSettings{Kerf: 2.5, AllowRotation: true, TimeoutMS: 5000},
	}

	req, err := DecodeRequest(wr)

	require.NoError(t, err)
	assert.Equal(t, model.StockSpec{Width: 2440, Height: 1220}, req.Stocks["MDF"])
	require.Len(t, req.Parts, 1)
	assert.Equal(t, "ab12cd34", req.Parts[0].ID)
	assert.Equal(t, model.GrainVertical, req.Parts[0].Part.Grain)
	assert.Equal(t, 2.5, req.Settings.KerfWidth)
	assert.Equal(t, 5*time.Second, req.Settings.TimeBudget)
}

func TestDecodeRequest_RejectsBadInput(t *testing.T) {
	_, err := DecodeRequest(NestingRequest{
		Settings: WireSettings{Kerf: -1},
	})
	require.Error(t, err)

	_, err = DecodeRequest(NestingRequest{
		Boards: []WireBoardSpec{{Material: "MDF", Width: 0, Height: 1220}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MDF")
}

func TestEncodeResponse(t *testing.T) {
	inst := model.NewPartInstance(model.NewPart("A", "Plywood", 500, 250, 1))
	inst.Rotate()
	inst.X, inst.Y, inst.BoardID = 10, 20, 1

	res := model.NestResult{Boards: []model.BoardResult{{
		ID: 1, Material: "Plywood", Width: 2440, Height: 1220,
		Parts: []*model.PartInstance{inst},
	}}}

	resp := EncodeResponse(res, 1500*time.Millisecond)

	assert.Equal(t, int64(1500), resp.Stats.TimeMS)
	assert.Equal(t, 1, resp.Stats.BoardsUsed)
	require.Len(t, resp.Boards, 1)
	assert.Equal(t, 1, resp.Boards[0].PartsCount)
	assert.InDelta(t, 125000.0, resp.Boards[0].UsedArea, 0.001)
	require.Len(t, resp.Placements, 1)
	row := resp.Placements[0]
	assert.Equal(t, inst.ID, row.PartID)
	assert.Equal(t, 1, row.BoardID)
	assert.Equal(t, 10.0, row.X)
	assert.Equal(t, 90, row.Rotation)
}

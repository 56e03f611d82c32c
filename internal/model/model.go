// Package model defines the domain types shared by the nesting engine,
// the execution backends and the exporters: part templates, expanded part
// instances, stock specifications, settings and results.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Grain represents the grain direction constraint for a part.
type Grain int

const (
	GrainNone       Grain = iota // No grain constraint, can rotate freely
	GrainHorizontal              // Grain runs along the width
	GrainVertical                // Grain runs along the height
)

func (g Grain) String() string {
	switch g {
	case GrainHorizontal:
		return "Horizontal"
	case GrainVertical:
		return "Vertical"
	default:
		return "None"
	}
}

// Locked reports whether the grain direction forbids 90° rotation.
func (g Grain) Locked() bool {
	return g != GrainNone
}

// Part is an immutable cut-list entry: one distinct geometry, material and
// thickness combination with a requested quantity. Placement never mutates
// a Part; the engine works on PartInstance values expanded from it.
type Part struct {
	Name      string  `json:"name"`
	Width     float64 `json:"width"`     // mm
	Height    float64 `json:"height"`    // mm
	Thickness float64 `json:"thickness"` // mm
	Material  string  `json:"material"`
	Grain     Grain   `json:"grain"`
	Rotatable bool    `json:"rotatable"`
	Quantity  int     `json:"quantity"`
}

func NewPart(name, material string, w, h float64, qty int) Part {
	return Part{
		Name:      name,
		Material:  material,
		Width:     w,
		Height:    h,
		Quantity:  qty,
		Grain:     GrainNone,
		Rotatable: true,
	}
}

// Area returns the nominal part area in square mm.
func (p Part) Area() float64 {
	return p.Width * p.Height
}

// PartInstance is one physical placement unit expanded from a Part.
// Width and Height start at the template dimensions and are swapped when
// the instance is rotated. X, Y and BoardID are assigned exactly once, at
// placement time; a BoardID of zero means not yet placed.
type PartInstance struct {
	ID      string  `json:"id"` // stable opaque id, crosses the process boundary
	Part    Part    `json:"part"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Rotated bool    `json:"rotated"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	BoardID int     `json:"board_id"`
}

// NewPartInstance creates a single instance of the given template with a
// freshly assigned id.
func NewPartInstance(p Part) *PartInstance {
	return &PartInstance{
		ID:     uuid.New().String()[:8],
		Part:   p,
		Width:  p.Width,
		Height: p.Height,
	}
}

// ExpandParts expands each template into Quantity placement instances.
// A quantity below one yields no instances for that template.
func ExpandParts(parts []Part) []*PartInstance {
	var instances []*PartInstance
	for _, p := range parts {
		for i := 0; i < p.Quantity; i++ {
			instances = append(instances, NewPartInstance(p))
		}
	}
	return instances
}

// Area returns the current instance area in square mm. Rotation swaps the
// sides but never changes the area.
func (pi *PartInstance) Area() float64 {
	return pi.Width * pi.Height
}

// CanRotate reports whether a 90° rotation is permitted for this instance:
// the template must be rotatable and free of grain constraints.
func (pi *PartInstance) CanRotate() bool {
	return pi.Part.Rotatable && !pi.Part.Grain.Locked()
}

// Rotate swaps the current width and height and toggles the rotated flag.
func (pi *PartInstance) Rotate() {
	pi.Width, pi.Height = pi.Height, pi.Width
	pi.Rotated = !pi.Rotated
}

// StockSpec is the pre-resolved stock sheet size for one material.
// The engine consumes these dimensions as given; choosing them (catalog,
// pricing) is the caller's concern.
type StockSpec struct {
	Width  float64 `json:"width"`  // mm
	Height float64 `json:"height"` // mm
}

// NestSettings holds the per-run nesting configuration. A settings value is
// read-only input to a run and is never mutated by the engine.
type NestSettings struct {
	KerfWidth     float64       `json:"kerf_width"`     // blade width in mm, >= 0
	AllowRotation bool          `json:"allow_rotation"` // permit 90° rotation for unconstrained parts
	TimeBudget    time.Duration `json:"time_budget"`    // wall-clock budget for the accelerated backend
}

func DefaultSettings() NestSettings {
	return NestSettings{
		KerfWidth:     3.0,
		AllowRotation: true,
		TimeBudget:    60 * time.Second,
	}
}

// BoardResult is one used stock sheet with its placed instances, in
// placement order. Board ids are unique across a whole run.
type BoardResult struct {
	ID       int             `json:"id"`
	Material string          `json:"material"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Parts    []*PartInstance `json:"parts"`
}

// UsedArea returns the total area covered by placed parts in square mm.
func (br BoardResult) UsedArea() float64 {
	var total float64
	for _, pi := range br.Parts {
		total += pi.Area()
	}
	return total
}

// StockArea returns the full sheet area in square mm.
func (br BoardResult) StockArea() float64 {
	return br.Width * br.Height
}

// WastePercentage returns the unused share of the sheet in percent.
func (br BoardResult) WastePercentage() float64 {
	total := br.StockArea()
	if total == 0 {
		return 0
	}
	return (total - br.UsedArea()) / total * 100.0
}

// NestResult holds the complete solution of one nesting run.
type NestResult struct {
	Boards []BoardResult `json:"boards"`
}

// PlacedCount returns the number of placed instances across all boards.
func (nr NestResult) PlacedCount() int {
	total := 0
	for _, b := range nr.Boards {
		total += len(b.Parts)
	}
	return total
}

// TotalEfficiency returns overall material usage percentage.
func (nr NestResult) TotalEfficiency() float64 {
	var used, total float64
	for _, b := range nr.Boards {
		used += b.UsedArea()
		total += b.StockArea()
	}
	if total == 0 {
		return 0
	}
	return used / total * 100.0
}

package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/nestcut/internal/model"
)

// boardSpacing is the horizontal gap between boards in the drawing, mm.
const boardSpacing = 100.0

// ExportDXF writes the nesting result as a DXF drawing: board outlines on
// one layer and part rectangles on another, with boards laid out side by
// side along the x axis.
func ExportDXF(path string, result model.NestResult) error {
	if len(result.Boards) == 0 {
		return fmt.Errorf("no boards to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer("BOARDS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("adding board layer: %w", err)
	}
	if _, err := d.AddLayer("PARTS", dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("adding part layer: %w", err)
	}

	offsetX := 0.0
	for _, board := range result.Boards {
		if err := d.ChangeLayer("BOARDS"); err != nil {
			return err
		}
		drawRect(d, offsetX, 0, board.Width, board.Height)

		if err := d.ChangeLayer("PARTS"); err != nil {
			return err
		}
		for _, pi := range board.Parts {
			drawRect(d, offsetX+pi.X, pi.Y, pi.Width, pi.Height)
		}

		offsetX += board.Width + boardSpacing
	}

	return d.SaveAs(path)
}

// drawRect adds the four edges of an axis-aligned rectangle.
func drawRect(d *drawing.Drawing, x, y, w, h float64) {
	d.Line(x, y, 0, x+w, y, 0)
	d.Line(x+w, y, 0, x+w, y+h, 0)
	d.Line(x+w, y+h, 0, x, y+h, 0)
	d.Line(x, y+h, 0, x, y, 0)
}

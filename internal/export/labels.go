package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/nestcut/internal/model"
)

// LabelInfo is the data encoded into each part label's QR code.
type LabelInfo struct {
	PartName string  `json:"name"`
	Material string  `json:"material"`
	Width    float64 `json:"width_mm"`
	Height   float64 `json:"height_mm"`
	BoardID  int     `json:"board"`
	Rotated  bool    `json:"rotated"`
	X        float64 `json:"x_mm"`
	Y        float64 `json:"y_mm"`
}

// Label layout constants for Avery 5160-compatible sheets (3 columns,
// 10 rows on US Letter).
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels writes a PDF of QR-coded labels, one per placed part. Each
// label carries the part name, dimensions and board assignment, plus a QR
// code encoding the same data as JSON.
func ExportLabels(path string, result model.NestResult) error {
	var labels []LabelInfo
	for _, board := range result.Boards {
		for _, pi := range board.Parts {
			labels = append(labels, LabelInfo{
				PartName: pi.Part.Name,
				Material: board.Material,
				Width:    pi.Part.Width,
				Height:   pi.Part.Height,
				BoardID:  board.ID,
				Rotated:  pi.Rotated,
				X:        pi.X,
				Y:        pi.Y,
			})
		}
	}
	if len(labels) == 0 {
		return fmt.Errorf("no placed parts to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols
		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("rendering label for %q: %w", label.PartName, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws one label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, seq int, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generating QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", seq)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding+1)
	pdf.CellFormat(textW, 4, info.PartName, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 4, fmt.Sprintf("%.0f x %.0f mm", info.Width, info.Height), "", 0, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+11)
	boardLine := fmt.Sprintf("Board %d / %s", info.BoardID, info.Material)
	pdf.CellFormat(textW, 4, boardLine, "", 0, "L", false, 0, "")

	if info.Rotated {
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.CellFormat(textW, 4, "rotated 90°", "", 0, "L", false, 0, "")
	}

	return nil
}

package model

import "fmt"

// PartTooLargeError reports a part that cannot be placed on an empty board
// of the configured stock size in either orientation. It is fatal for the
// affected material; other materials continue independently.
type PartTooLargeError struct {
	PartName    string
	PartWidth   float64
	PartHeight  float64
	Material    string
	StockWidth  float64
	StockHeight float64
}

func (e *PartTooLargeError) Error() string {
	return fmt.Sprintf("part %q (%.0fx%.0f mm) does not fit on %.0fx%.0f mm stock for material %q",
		e.PartName, e.PartWidth, e.PartHeight, e.StockWidth, e.StockHeight, e.Material)
}

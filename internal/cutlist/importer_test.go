package cutlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/nestcut/internal/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectDelimiter(t *testing.T) {
	cases := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Width,Height,Qty\nShelf,600,300,2\nDoor,400,800,1\n", ','},
		{"semicolon", "Name;Width;Height;Qty\nShelf;600;300;2\nDoor;400;800;1\n", ';'},
		{"tab", "Name\tWidth\tHeight\tQty\nShelf\t600\t300\t2\n", '\t'},
		{"pipe", "Name|Width|Height|Qty\nShelf|600|300|2\n", '|'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectDelimiter([]byte(tc.data)); got != tc.want {
				t.Errorf("detectDelimiter = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestImportCSV_WithHeader(t *testing.T) {
	path := writeCSV(t, "Name,Width,Height,Qty,Material,Grain\nShelf,600,300,2,Plywood,vertical\nDoor,400,800,1,MDF,\n")

	result := ImportCSV(path, "Default")

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(result.Parts))
	}

	shelf := result.Parts[0]
	if shelf.Name != "Shelf" || shelf.Width != 600 || shelf.Height != 300 || shelf.Quantity != 2 {
		t.Errorf("shelf = %+v", shelf)
	}
	if shelf.Material != "Plywood" {
		t.Errorf("material = %q", shelf.Material)
	}
	if shelf.Grain != model.GrainVertical {
		t.Errorf("grain = %v", shelf.Grain)
	}
}

func TestImportCSV_HeaderAliases(t *testing.T) {
	path := writeCSV(t, "Label,W,H,Pcs\nShelf,600,300,2\n")

	result := ImportCSV(path, "Plywood")

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(result.Parts))
	}
	p := result.Parts[0]
	if p.Name != "Shelf" || p.Width != 600 || p.Height != 300 || p.Quantity != 2 {
		t.Errorf("part = %+v", p)
	}
	if p.Material != "Plywood" {
		t.Errorf("default material not applied: %q", p.Material)
	}
}

func TestImportCSV_PositionalWithoutHeader(t *testing.T) {
	path := writeCSV(t, "Shelf,600,300,2,Plywood,none\nDoor,400,800,1,MDF,v\n")

	result := ImportCSV(path, "Default")

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(result.Parts))
	}
	if result.Parts[1].Grain != model.GrainVertical {
		t.Errorf("grain = %v", result.Parts[1].Grain)
	}
}

func TestImportCSV_RowErrorsDoNotAbort(t *testing.T) {
	path := writeCSV(t, "Name,Width,Height,Qty\nGood,600,300,2\nBad,abc,300,1\nAlso good,100,100,1\n")

	result := ImportCSV(path, "Plywood")

	if len(result.Parts) != 2 {
		t.Errorf("got %d parts, want 2", len(result.Parts))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "line 3") {
		t.Errorf("error should name the line: %q", result.Errors[0])
	}
}

func TestImportCSV_UnknownGrainWarns(t *testing.T) {
	path := writeCSV(t, "Name,Width,Height,Grain\nShelf,600,300,diagonal\n")

	result := ImportCSV(path, "Plywood")

	if len(result.Parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(result.Parts))
	}
	if result.Parts[0].Grain != model.GrainNone {
		t.Errorf("grain = %v, want none", result.Parts[0].Grain)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(result.Warnings))
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	result := ImportCSV(writeCSV(t, "  \n"), "Plywood")
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for an empty file")
	}
}

func TestImportCSV_MissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "absent.csv"), "Plywood")
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a missing file")
	}
}

func TestImportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Name", "Width", "Height", "Qty", "Material"},
		{"Shelf", 600, 300, 2, "Plywood"},
		{"Door", 400, 800, 1, "MDF"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result := ImportXLSX(path, "Default")

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(result.Parts))
	}
	if result.Parts[0].Name != "Shelf" || result.Parts[0].Material != "Plywood" {
		t.Errorf("part = %+v", result.Parts[0])
	}
}

func TestImportXLSX_MissingFile(t *testing.T) {
	result := ImportXLSX(filepath.Join(t.TempDir(), "absent.xlsx"), "Plywood")
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a missing file")
	}
}

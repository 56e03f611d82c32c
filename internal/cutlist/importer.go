package cutlist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/nestcut/internal/model"
)

// ImportResult holds the parts recovered from a CSV or XLSX part list
// together with per-row errors and warnings. Row failures never abort an
// import; they are collected so the caller can report them.
type ImportResult struct {
	Parts    []model.Part
	Errors   []string
	Warnings []string
}

// columnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type columnMapping struct {
	name      int
	width     int
	height    int
	thickness int
	quantity  int
	material  int
	grain     int
}

// headerAliases maps canonical column names to accepted aliases, lowercase.
var headerAliases = map[string][]string{
	"name":      {"name", "label", "part", "part name", "description", "piece", "item"},
	"width":     {"width", "w", "length", "len", "x"},
	"height":    {"height", "h", "depth", "d", "y"},
	"thickness": {"thickness", "thick", "t"},
	"quantity":  {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"material":  {"material", "mat", "sheet", "stock"},
	"grain":     {"grain", "grain direction", "direction", "orientation"},
}

// ImportCSV imports a part list from a CSV file. The delimiter is detected
// automatically (comma, semicolon, tab or pipe) and columns are mapped by
// case-insensitive header names; without a header row a positional layout
// of name, width, height, quantity, material, grain is assumed.
// defaultMaterial applies to rows without a material column or value.
func ImportCSV(path, defaultMaterial string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read CSV: %v", err))
		return result
	}

	return importRows(records, "line", defaultMaterial)
}

// ImportXLSX imports a part list from the first sheet of an Excel file.
func ImportXLSX(path, defaultMaterial string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read sheet %q: %v", sheets[0], err))
		return result
	}

	return importRows(rows, "row", defaultMaterial)
}

// detectDelimiter picks the CSV delimiter producing the most consistent
// multi-column layout across lines.
func detectDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}
	return best
}

// detectColumns examines a header row and returns the column mapping. The
// second result reports whether a header was recognized; without one a
// positional mapping is returned.
func detectColumns(row []string) (columnMapping, bool) {
	mapping := columnMapping{
		name: -1, width: -1, height: -1, thickness: -1,
		quantity: -1, material: -1, grain: -1,
	}

	assign := func(role string, i int) {
		switch role {
		case "name":
			if mapping.name == -1 {
				mapping.name = i
			}
		case "width":
			if mapping.width == -1 {
				mapping.width = i
			}
		case "height":
			if mapping.height == -1 {
				mapping.height = i
			}
		case "thickness":
			if mapping.thickness == -1 {
				mapping.thickness = i
			}
		case "quantity":
			if mapping.quantity == -1 {
				mapping.quantity = i
			}
		case "material":
			if mapping.material == -1 {
				mapping.material = i
			}
		case "grain":
			if mapping.grain == -1 {
				mapping.grain = i
			}
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := normalize(cell)
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					assign(role, i)
				}
			}
		}
	}

	if !isHeader {
		return columnMapping{
			name: 0, width: 1, height: 2, quantity: 3,
			material: 4, grain: 5, thickness: -1,
		}, false
	}
	return mapping, true
}

// importRows converts raw cell rows into parts.
func importRows(rows [][]string, rowWord, defaultMaterial string) ImportResult {
	result := ImportResult{}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	mapping, hasHeader := detectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowWord, i+1)
		part, errMsg, warnMsg := parseRow(row, mapping, rowLabel, defaultMaterial, len(result.Parts))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warnMsg != "" {
			result.Warnings = append(result.Warnings, warnMsg)
		}
		result.Parts = append(result.Parts, part)
	}

	if len(result.Parts) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "no parts found")
	}
	return result
}

// parseRow extracts one part from a row. Width, height and quantity are
// required; material falls back to the import default; thickness and grain
// are optional.
func parseRow(row []string, mapping columnMapping, rowLabel, defaultMaterial string, partCount int) (model.Part, string, string) {
	name := getCell(row, mapping.name)
	if name == "" {
		name = fmt.Sprintf("Part %d", partCount+1)
	}

	width, err := parseDimension(getCell(row, mapping.width))
	if err != nil {
		return model.Part{}, fmt.Sprintf("%s: invalid width: %v", rowLabel, err), ""
	}
	height, err := parseDimension(getCell(row, mapping.height))
	if err != nil {
		return model.Part{}, fmt.Sprintf("%s: invalid height: %v", rowLabel, err), ""
	}

	qty := 1
	if qtyStr := getCell(row, mapping.quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return model.Part{}, fmt.Sprintf("%s: invalid quantity %q", rowLabel, qtyStr), ""
		}
	}

	material := getCell(row, mapping.material)
	if material == "" {
		material = defaultMaterial
	}

	part := model.NewPart(name, material, width, height, qty)

	if thickStr := getCell(row, mapping.thickness); thickStr != "" {
		thickness, err := strconv.ParseFloat(thickStr, 64)
		if err == nil && thickness > 0 {
			part.Thickness = thickness
		}
	}

	var warning string
	if grainStr := getCell(row, mapping.grain); grainStr != "" {
		grain, ok := ParseGrain(grainStr)
		if ok {
			part.Grain = grain
		} else {
			warning = fmt.Sprintf("%s: unknown grain direction %q, defaulting to none", rowLabel, grainStr)
		}
	}

	return part, "", warning
}

func parseDimension(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %v", v)
	}
	return v, nil
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

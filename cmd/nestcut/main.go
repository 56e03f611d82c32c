// nestcut packs a cut list onto the minimum number of stock boards and
// reports per-board placements and waste.
//
//	nestcut -job kitchen.yaml -pdf layout.pdf
//
// The job file names the materials, their stock sizes and the part list.
// When an accelerated worker binary is configured (job setting or -worker
// flag) it is preferred; any worker failure falls back to the built-in
// solver.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/piwi3910/nestcut/internal/backend"
	"github.com/piwi3910/nestcut/internal/cutlist"
	"github.com/piwi3910/nestcut/internal/export"
	"github.com/piwi3910/nestcut/internal/logging"
	"github.com/piwi3910/nestcut/internal/model"
	"github.com/piwi3910/nestcut/internal/project"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		jobPath    = flag.String("job", "", "YAML job file (required)")
		partsPath  = flag.String("parts", "", "append parts from a CSV or XLSX part list")
		partsMat   = flag.String("material", "", "material for imported rows without one")
		workerPath = flag.String("worker", "", "accelerated worker binary (overrides job setting)")
		pdfPath    = flag.String("pdf", "", "write board layouts as PDF")
		labelsPath = flag.String("labels", "", "write QR part labels as PDF")
		xlsxPath   = flag.String("xlsx", "", "write cut list as XLSX")
		dxfPath    = flag.String("dxf", "", "write board layouts as DXF")
		savePath   = flag.String("save", "", "save job and result snapshot as JSON")
		logFile    = flag.String("log", "", "also log to this file (rotated)")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *jobPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nestcut -job <file.yaml> [options]")
		flag.PrintDefaults()
		return 2
	}

	logger := logging.New(*logFile, *verbose)
	defer logger.Sync()

	job, err := cutlist.Load(*jobPath)
	if err != nil {
		color.Red("error: %v", err)
		return 1
	}

	worker := job.Settings.Worker
	if *workerPath != "" {
		worker = *workerPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := backend.NewRunner(backend.RunnerConfig{
		WorkerPath: worker,
		Logger:     logger,
		Progress: func(material string, boards, placed, total int) {
			fmt.Printf("  %s: board %d, %d/%d parts placed\n", material, boards, placed, total)
		},
	})

	settings := job.NestSettings()
	parts := job.ModelParts()

	if *partsPath != "" {
		imported, ok := importParts(*partsPath, *partsMat)
		if !ok {
			return 1
		}
		parts = append(parts, imported...)
	}

	instances := model.ExpandParts(parts)

	result, nestErr := runner.Pack(ctx, backend.Request{
		Stocks:   job.Stocks(),
		Parts:    instances,
		Settings: settings,
	})
	if nestErr != nil && len(result.Boards) == 0 {
		color.Red("error: %v", nestErr)
		return 1
	}

	printSummary(result, instances)

	if nestErr != nil {
		var tooLarge *model.PartTooLargeError
		if errors.As(nestErr, &tooLarge) || errors.Is(nestErr, context.Canceled) {
			color.Red("error: %v", nestErr)
		} else {
			color.Yellow("warning: %v", nestErr)
		}
	}

	failed := false
	exportSteps := []struct {
		path string
		name string
		fn   func() error
	}{
		{*pdfPath, "PDF", func() error { return export.ExportPDF(*pdfPath, result, settings) }},
		{*labelsPath, "labels", func() error { return export.ExportLabels(*labelsPath, result) }},
		{*xlsxPath, "XLSX", func() error { return export.ExportXLSX(*xlsxPath, result) }},
		{*dxfPath, "DXF", func() error { return export.ExportDXF(*dxfPath, result) }},
		{*savePath, "snapshot", func() error {
			return project.Save(*savePath, project.Snapshot{
				Name:     *jobPath,
				Settings: settings,
				Stocks:   job.Stocks(),
				Parts:    parts,
				Result:   &result,
			})
		}},
	}
	for _, step := range exportSteps {
		if step.path == "" {
			continue
		}
		if err := step.fn(); err != nil {
			color.Red("%s export failed: %v", step.name, err)
			failed = true
		} else {
			fmt.Printf("wrote %s\n", step.path)
		}
	}

	if nestErr != nil || failed {
		return 1
	}
	return 0
}

// importParts reads an external CSV or XLSX part list. Row-level problems
// are printed; a list yielding no parts at all fails the run.
func importParts(path, defaultMaterial string) ([]model.Part, bool) {
	var res cutlist.ImportResult
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		res = cutlist.ImportXLSX(path, defaultMaterial)
	} else {
		res = cutlist.ImportCSV(path, defaultMaterial)
	}
	for _, w := range res.Warnings {
		color.Yellow("import: %s", w)
	}
	for _, e := range res.Errors {
		color.Red("import: %s", e)
	}
	if len(res.Parts) == 0 {
		color.Red("error: no parts imported from %s", path)
		return nil, false
	}
	return res.Parts, true
}

// printSummary writes the per-board results and overall statistics.
func printSummary(result model.NestResult, instances []*model.PartInstance) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)

	fmt.Println()
	bold.Printf("Boards used: %d\n", len(result.Boards))
	for _, board := range result.Boards {
		fmt.Printf("  board %d  %-12s %4.0fx%-4.0f  %2d parts  waste %5.1f%%\n",
			board.ID, board.Material, board.Width, board.Height,
			len(board.Parts), board.WastePercentage())
	}
	green.Printf("Overall efficiency: %.1f%%\n", result.TotalEfficiency())

	unplaced := 0
	for _, inst := range instances {
		if inst.BoardID == 0 {
			unplaced++
		}
	}
	if unplaced > 0 {
		color.Yellow("Unplaced parts: %d of %d", unplaced, len(instances))
	}
}

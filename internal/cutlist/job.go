// Package cutlist loads nesting jobs from the filesystem: YAML job files
// describing settings, per-material stock sizes and the part list, plus
// CSV/XLSX part-list imports with flexible column mapping.
package cutlist

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/nestcut/internal/model"
)

// Job is one complete nesting job as described by a YAML job file.
type Job struct {
	Settings  JobSettings         `yaml:"settings"`
	Materials map[string]JobStock `yaml:"materials"`
	Parts     []JobPart           `yaml:"parts"`
}

// JobSettings mirrors model.NestSettings in job-file form.
type JobSettings struct {
	KerfMM        float64 `yaml:"kerf_mm"`
	AllowRotation *bool   `yaml:"allow_rotation"` // default true
	TimeBudgetMS  int64   `yaml:"time_budget_ms"`
	Worker        string  `yaml:"worker"` // accelerated worker binary, optional
}

// JobStock is the stock sheet size for one material.
type JobStock struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// JobPart is one cut-list entry.
type JobPart struct {
	Name      string  `yaml:"name"`
	Material  string  `yaml:"material"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Thickness float64 `yaml:"thickness"`
	Quantity  int     `yaml:"quantity"` // default 1
	Grain     string  `yaml:"grain"`    // none | horizontal | vertical
	Rotatable *bool   `yaml:"rotatable"` // default true
}

// Load reads and validates a YAML job file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parsing job file: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// Validate checks the job for structural errors: negative kerf, missing or
// degenerate stock sizes, and parts referencing unknown materials.
func (j *Job) Validate() error {
	if j.Settings.KerfMM < 0 {
		return fmt.Errorf("kerf_mm must be >= 0, got %.2f", j.Settings.KerfMM)
	}
	if len(j.Parts) == 0 {
		return fmt.Errorf("job contains no parts")
	}
	for mat, stock := range j.Materials {
		if stock.Width <= 0 || stock.Height <= 0 {
			return fmt.Errorf("material %q: stock size must be positive, got %.0fx%.0f", mat, stock.Width, stock.Height)
		}
	}
	for i, p := range j.Parts {
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("part %d (%q): width and height must be positive", i+1, p.Name)
		}
		if p.Quantity < 0 {
			return fmt.Errorf("part %d (%q): quantity must not be negative", i+1, p.Name)
		}
		if _, ok := j.Materials[p.Material]; !ok {
			return fmt.Errorf("part %d (%q): unknown material %q", i+1, p.Name, p.Material)
		}
		if _, ok := ParseGrain(p.Grain); !ok {
			return fmt.Errorf("part %d (%q): unknown grain direction %q", i+1, p.Name, p.Grain)
		}
	}
	return nil
}

// NestSettings converts the job settings to engine form.
func (j *Job) NestSettings() model.NestSettings {
	allowRotation := true
	if j.Settings.AllowRotation != nil {
		allowRotation = *j.Settings.AllowRotation
	}
	return model.NestSettings{
		KerfWidth:     j.Settings.KerfMM,
		AllowRotation: allowRotation,
		TimeBudget:    time.Duration(j.Settings.TimeBudgetMS) * time.Millisecond,
	}
}

// Stocks converts the material map to engine form.
func (j *Job) Stocks() map[string]model.StockSpec {
	stocks := make(map[string]model.StockSpec, len(j.Materials))
	for mat, s := range j.Materials {
		stocks[mat] = model.StockSpec{Width: s.Width, Height: s.Height}
	}
	return stocks
}

// ModelParts converts the part list to engine templates. A missing
// quantity defaults to one.
func (j *Job) ModelParts() []model.Part {
	parts := make([]model.Part, 0, len(j.Parts))
	for i, jp := range j.Parts {
		name := jp.Name
		if name == "" {
			name = fmt.Sprintf("Part %d", i+1)
		}
		qty := jp.Quantity
		if qty == 0 {
			qty = 1
		}
		grain, _ := ParseGrain(jp.Grain)
		rotatable := true
		if jp.Rotatable != nil {
			rotatable = *jp.Rotatable
		}
		parts = append(parts, model.Part{
			Name:      name,
			Material:  jp.Material,
			Width:     jp.Width,
			Height:    jp.Height,
			Thickness: jp.Thickness,
			Quantity:  qty,
			Grain:     grain,
			Rotatable: rotatable,
		})
	}
	return parts
}

// ParseGrain converts a grain direction string to a model.Grain value. The
// second result reports whether the string was recognized.
func ParseGrain(s string) (model.Grain, bool) {
	switch normalize(s) {
	case "horizontal", "h":
		return model.GrainHorizontal, true
	case "vertical", "v":
		return model.GrainVertical, true
	case "", "none", "n", "-", "any":
		return model.GrainNone, true
	default:
		return model.GrainNone, false
	}
}

// Package jobfile loads HCL render-job descriptions for the
// mandelrender command.
//
// A job file holds one or more render blocks:
//
//	render "overview" {
//	    width      = classic.width
//	    height     = classic.height
//	    iterations = classic.iterations
//
//	    engine      = "cpu"
//	    supersample = 2
//	    output      = "overview.png"
//	}
//
// The classic object exposes the historical 1152x768x100 settings so
// job files can reference them instead of repeating magic numbers.
package jobfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Classic render settings, matching the original fixed-size evaluator.
const (
	ClassicWidth      = 1152
	ClassicHeight     = 768
	ClassicIterations = 100
)

// File is the decoded top-level structure of a job file.
type File struct {
	Renders []*Render `hcl:"render,block"`
}

// Render describes one evaluation and its image output.
type Render struct {
	Name string `hcl:"name,label"`

	Width      int `hcl:"width"`
	Height     int `hcl:"height"`
	Iterations int `hcl:"iterations"`

	// Engine picks the execution model: "serial", "cpu" or "gpu".
	// Empty means "cpu".
	Engine string `hcl:"engine,optional"`

	// Workers bounds the cpu engine's parallelism. 0 means GOMAXPROCS.
	Workers int `hcl:"workers,optional"`

	// Supersample evaluates the grid at N times the output size and
	// downscales. 0 or 1 means no supersampling.
	Supersample int `hcl:"supersample,optional"`

	// Output is the PNG path. Empty means "<name>.png".
	Output string `hcl:"output,optional"`
}

// Load parses and validates a job file.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse job file %s: %w", path, diags)
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode job file %s: %w", path, diags)
	}

	for _, r := range f.Renders {
		r.applyDefaults()
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("job file %s: %w", path, err)
		}
	}
	return &f, nil
}

// evalContext exposes the variables job files may reference.
func evalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{
		"classic": cty.ObjectVal(map[string]cty.Value{
			"width":      cty.NumberIntVal(ClassicWidth),
			"height":     cty.NumberIntVal(ClassicHeight),
			"iterations": cty.NumberIntVal(ClassicIterations),
		}),
	}
	return &hcl.EvalContext{Variables: vars}
}

func (r *Render) applyDefaults() {
	if r.Engine == "" {
		r.Engine = "cpu"
	}
	if r.Supersample == 0 {
		r.Supersample = 1
	}
	if r.Output == "" {
		r.Output = r.Name + ".png"
	}
}

func (r *Render) validate() error {
	switch r.Engine {
	case "serial", "cpu", "gpu":
	default:
		return fmt.Errorf("render %q: unknown engine %q (want serial, cpu or gpu)", r.Name, r.Engine)
	}
	if r.Workers < 0 {
		return fmt.Errorf("render %q: workers must not be negative, got %d", r.Name, r.Workers)
	}
	if r.Supersample < 1 {
		return fmt.Errorf("render %q: supersample must be at least 1, got %d", r.Name, r.Supersample)
	}
	return nil
}

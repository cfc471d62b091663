// Package labelsort runs the complete sorting pipeline: it reads the guide
// and the label export, matches labels to guide orders, stamps the labels
// and assembles the re-ordered output document.
//
// A run only fails on file-level problems (an unreadable input, a corrupt
// PDF container, an unwritable output). Everything else, such as missing
// orders or unreadable pages, is reported through the progress sink and the
// final Report.
//
// Example:
//
//	res, err := labelsort.RunFiles(ctx, cfg, labelsort.FilePaths{
//		Guide:  "guide.pdf",
//		Source: "labels.pdf",
//		Marker: "marker.png",
//		Output: "sorted.pdf",
//	}, progress.NewConsole(os.Stdout))
package labelsort

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/gardar/labelsort/pkg/assemble"
	"github.com/gardar/labelsort/pkg/config"
	"github.com/gardar/labelsort/pkg/fileutil"
	"github.com/gardar/labelsort/pkg/guide"
	"github.com/gardar/labelsort/pkg/labels"
	"github.com/gardar/labelsort/pkg/logging"
	"github.com/gardar/labelsort/pkg/overlay"
	"github.com/gardar/labelsort/pkg/pdftext"
	"github.com/gardar/labelsort/pkg/progress"
)

// Inputs are the three byte streams a run consumes.
type Inputs struct {
	Guide  []byte // Guide PDF
	Source []byte // Label export PDF
	Marker []byte // Marker image; empty or undecodable gives text-only stamps
}

// FilePaths names the files of a path-based run. Output is optional.
type FilePaths struct {
	Guide  string
	Source string
	Marker string
	Output string
}

// Result is the outcome of a successful run.
type Result struct {
	RunID  string
	Output []byte
	Report assemble.Report
}

// Runner holds what stays the same across runs.
type Runner struct {
	Config *config.Config // nil means config.Default()
	Sink   progress.Sink  // Operator-facing progress log
	Logger *slog.Logger   // Structured log, tagged with the run ID
}

// Run executes the pipeline on in-memory inputs.
func Run(ctx context.Context, cfg *config.Config, in Inputs, sink progress.Sink) (*Result, error) {
	r := &Runner{Config: cfg, Sink: sink}
	return r.Run(ctx, in)
}

// RunFiles reads the inputs from disk, runs the pipeline and writes the
// output file when paths.Output is set.
func RunFiles(ctx context.Context, cfg *config.Config, paths FilePaths, sink progress.Sink) (*Result, error) {
	r := &Runner{Config: cfg, Sink: sink}
	return r.RunFiles(ctx, paths)
}

// Run executes the pipeline on in-memory inputs. A fatal error is emitted
// once as a fatal entry and returned.
func (r *Runner) Run(ctx context.Context, in Inputs) (*Result, error) {
	runID := uuid.NewString()
	sink := r.sink(runID)

	res, err := r.run(ctx, runID, in, sink)
	if err != nil {
		return nil, fatal(sink, err)
	}
	return res, nil
}

// RunFiles is Run for inputs and output on disk.
func (r *Runner) RunFiles(ctx context.Context, paths FilePaths) (*Result, error) {
	runID := uuid.NewString()
	sink := r.sink(runID)

	res, err := r.runFiles(ctx, runID, paths, sink)
	if err != nil {
		return nil, fatal(sink, err)
	}
	return res, nil
}

func (r *Runner) runFiles(ctx context.Context, runID string, paths FilePaths, sink progress.Sink) (*Result, error) {
	var in Inputs
	var err error

	if in.Guide, err = readInput("guide", paths.Guide); err != nil {
		return nil, err
	}
	if in.Source, err = readInput("source", paths.Source); err != nil {
		return nil, err
	}
	if paths.Marker != "" {
		if in.Marker, err = readInput("marker", paths.Marker); err != nil {
			return nil, err
		}
	}

	res, err := r.run(ctx, runID, in, sink)
	if err != nil {
		return nil, err
	}

	if paths.Output != "" {
		if err := fileutil.WriteAtomic(paths.Output, res.Output, 0o644, r.config().Output.Overwrite); err != nil {
			return nil, fmt.Errorf("write output: %w", err)
		}
		progress.Logf(sink, progress.Info, "Wrote %d pages to %s", res.Report.PagesWritten, paths.Output)
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, runID string, in Inputs, sink progress.Sink) (*Result, error) {
	cfg := r.config()

	labelOpts, err := cfg.LabelOptions()
	if err != nil {
		return nil, fmt.Errorf("label options: %w", err)
	}
	guideMatcher, err := cfg.GuideMatcher()
	if err != nil {
		return nil, fmt.Errorf("guide pattern: %w", err)
	}

	progress.Logf(sink, progress.Info, "Run %s started", runID)

	guideDoc, sourceDoc, err := pdftext.ParsePair(ctx, in.Guide, in.Source)
	if err != nil {
		return nil, err
	}
	progress.Logf(sink, progress.Info, "Loaded guide (%d pages) and source (%d pages)",
		guideDoc.PageCount(), sourceDoc.PageCount())

	// Guide phase
	scanner := guide.NewScanner(sink)
	scanner.Matcher = guideMatcher
	scanner.Canon = cfg.Canonicalizer()
	guideRes := scanner.Scan(guideDoc)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Index phase
	for _, w := range sourceDoc.Warnings {
		progress.Logf(sink, progress.Warning, "Source %s", w)
	}
	labelRes := labels.NewIndexer(labelOpts, sink).Index(sourceDoc)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Assembly phase
	marker := loadMarker(in.Marker, sink)
	plan := assemble.Build(guideRes, labelRes, cfg.AssembleOptions(), sink)

	out, err := assemble.Render(plan, sourceDoc, marker, cfg.Geometry())
	if err != nil {
		return nil, fmt.Errorf("assemble output: %w", err)
	}

	report := plan.Report
	if report.Success() {
		progress.Logf(sink, progress.Info, "Total success: all %d guide orders matched, %d pages assembled",
			len(report.Matched), report.PagesWritten)
	} else {
		progress.Logf(sink, progress.Info, "Missing orders: %d (%d boxes), %d pages assembled",
			len(report.Missing), report.MissingBoxes(), report.PagesWritten)
	}

	return &Result{RunID: runID, Output: out, Report: report}, nil
}

func (r *Runner) config() *config.Config {
	if r.Config != nil {
		return r.Config
	}
	cfg := config.Default()
	return &cfg
}

// sink combines the operator sink with the structured log of this run.
func (r *Runner) sink(runID string) progress.Sink {
	if r.Logger == nil {
		return progress.Multi(r.Sink)
	}
	logger := logging.NewComponentLogger(r.Logger, "labelsort").With(slog.String(logging.FieldRunID, runID))
	return progress.Multi(r.Sink, progress.Slog(logger))
}

// loadMarker decodes the marker image. Failure is never fatal: the run goes
// on with text-only stamps.
func loadMarker(data []byte, sink progress.Sink) *overlay.Marker {
	if len(data) == 0 {
		progress.Logf(sink, progress.Warning, "No marker image, stamping identifiers only")
		return nil
	}
	m, err := overlay.LoadMarker(data)
	if err != nil {
		progress.Logf(sink, progress.Warning, "Marker image unusable, stamping identifiers only: %v", err)
		return nil
	}
	return m
}

func readInput(role, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("no %s file given", role)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", role, err)
	}
	return data, nil
}

func fatal(sink progress.Sink, err error) error {
	msg := err.Error()
	if errors.Is(err, context.Canceled) {
		msg = "run cancelled"
	}
	progress.Logf(sink, progress.Fatal, "%s", msg)
	return err
}

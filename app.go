package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chazu/sketch/pkg/config"
	"github.com/chazu/sketch/pkg/engine"
	"github.com/chazu/sketch/pkg/export"
	"github.com/chazu/sketch/pkg/export/dxf"
	"github.com/chazu/sketch/pkg/export/png"
	"github.com/chazu/sketch/pkg/export/svg"
	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
	"github.com/chazu/sketch/pkg/snap"
	"github.com/chazu/sketch/pkg/solver"
	"github.com/chazu/sketch/pkg/store"
)

// ErrNoStore is returned by persistence methods when the App has no store.
var ErrNoStore = errors.New("no sketch store configured")

// ErrScript is returned when a script could not be evaluated.
var ErrScript = errors.New("script failed")

// App is the HTTP backend. Each call evaluates or loads its own sketch, so
// no sketch is ever shared between requests.
type App struct {
	cfg   *config.Config
	store *store.Store
	log   *slog.Logger
}

// PointData is a JSON-serializable model-space point.
type PointData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func pointData(p geom.Point) PointData { return PointData{X: p.X, Y: p.Y} }

func (p PointData) point() geom.Point { return geom.Pt(p.X, p.Y) }

// EvalErrorData is a JSON-serializable eval error for the client.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating or loading a sketch.
type EvalResult struct {
	Sketch   *sketch.Document `json:"sketch"`
	Residual float64          `json:"residual"`
	Errors   []EvalErrorData  `json:"errors"`
	Warnings []EvalErrorData  `json:"warnings"`
}

// Failed reports whether the result carries errors.
func (r EvalResult) Failed() bool { return len(r.Errors) > 0 }

// NewApp creates an App. A nil cfg selects defaults; a nil store disables
// persistence.
func NewApp(cfg *config.Config, st *store.Store) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{cfg: cfg, store: st, log: slog.Default()}
}

// build evaluates source, solves the result and reports both.
func (a *App) build(source string) (*sketch.Sketch, EvalResult) {
	result := EvalResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a sketch.
	eng := engine.NewEngine(a.cfg.EngineOptions()...)
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate fatal error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil, result
	}

	// Step 2: Relax the constraints.
	solver.Solve(s, a.cfg.Solver.Iterations)
	return s, a.describe(s, result)
}

// describe fills result with a snapshot of s and its validation findings.
func (a *App) describe(s *sketch.Sketch, result EvalResult) EvalResult {
	doc := s.Document()
	result.Sketch = &doc
	result.Residual = solver.TotalResidual(s)
	for _, v := range sketch.Validate(s) {
		e := EvalErrorData{Message: v.Error()}
		if v.Severity == sketch.SeverityError {
			result.Errors = append(result.Errors, e)
		} else {
			result.Warnings = append(result.Warnings, e)
		}
	}
	return result
}

// Evaluate takes Lisp source and returns the solved sketch + errors.
func (a *App) Evaluate(source string) EvalResult {
	_, result := a.build(source)
	return result
}

// ---------------------------------------------------------------------------
// Snapping
// ---------------------------------------------------------------------------

// SnapQuery asks where a cursor at Point would snap in the sketch built by
// Source. Coordinates are in model space. When Start is set the query also
// looks for a direction lock for a line drawn from Start.
type SnapQuery struct {
	Source  string     `json:"source"`
	Point   PointData  `json:"point"`
	Start   *PointData `json:"start,omitempty"`
	Exclude []string   `json:"exclude,omitempty"`
	Tight   bool       `json:"tight,omitempty"`
	NoLines bool       `json:"noLines,omitempty"`
}

// TargetData is a JSON-serializable snap target.
type TargetData struct {
	Kind  string    `json:"kind"`
	Joint string    `json:"joint,omitempty"`
	Shape string    `json:"shape,omitempty"`
	Point PointData `json:"point"`
}

// InferenceData is a JSON-serializable direction lock.
type InferenceData struct {
	Kind    string    `json:"kind"`
	Point   PointData `json:"point"`
	RefLine string    `json:"refLine,omitempty"`
}

// SnapResult holds the snap target and inference, either of which may be
// absent.
type SnapResult struct {
	Target    *TargetData     `json:"target,omitempty"`
	Inference *InferenceData  `json:"inference,omitempty"`
	Cluster   []string        `json:"cluster,omitempty"`
	Errors    []EvalErrorData `json:"errors"`
}

// Snap evaluates q.Source and answers the snap query against it using the
// configured viewport and tolerances.
func (a *App) Snap(q SnapQuery) SnapResult {
	s, built := a.build(q.Source)
	result := SnapResult{Errors: built.Errors}
	if s == nil {
		return result
	}
	vp, err := a.cfg.NewViewport()
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	se := snap.NewEngine(s, vp, a.cfg.Tolerances())

	opts := snap.SnapOptions{Tight: q.Tight, ExcludeLines: q.NoLines}
	for _, id := range q.Exclude {
		opts.Exclude = append(opts.Exclude, sketch.JointID(id))
	}
	target, ok := se.FindSnap(q.Point.point(), opts)
	if ok {
		result.Target = &TargetData{
			Kind:  target.Kind.String(),
			Joint: string(target.Joint),
			Shape: string(target.Shape),
			Point: pointData(target.Point),
		}
		if target.Kind == snap.TargetJoint {
			for _, id := range snap.FindCoincidentCluster(s, target.Joint) {
				result.Cluster = append(result.Cluster, string(id))
			}
		}
	}

	if q.Start != nil {
		var hint *snap.Target
		if ok {
			hint = &target
		}
		if inf, found := se.FindInference(q.Start.point(), q.Point.point(), hint); found {
			result.Inference = &InferenceData{
				Kind:    inf.Kind.String(),
				Point:   pointData(inf.Point),
				RefLine: string(inf.RefLine),
			}
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

// Save evaluates source and stores the solved sketch under name. Scripts
// that fail or leave error-severity findings are not stored.
func (a *App) Save(ctx context.Context, name, source string) (EvalResult, error) {
	if a.store == nil {
		return EvalResult{}, ErrNoStore
	}
	s, result := a.build(source)
	if s == nil || result.Failed() {
		return result, ErrScript
	}
	if err := a.store.Save(ctx, name, s); err != nil {
		return result, err
	}
	return result, nil
}

// Load returns the sketch stored under name.
func (a *App) Load(ctx context.Context, name string) (EvalResult, error) {
	s, err := a.load(ctx, name)
	if err != nil {
		return EvalResult{}, err
	}
	return a.describe(s, EvalResult{Errors: []EvalErrorData{}, Warnings: []EvalErrorData{}}), nil
}

func (a *App) load(ctx context.Context, name string) (*sketch.Sketch, error) {
	if a.store == nil {
		return nil, ErrNoStore
	}
	return a.store.Load(ctx, name)
}

// List returns the stored sketch names.
func (a *App) List(ctx context.Context) ([]store.Entry, error) {
	if a.store == nil {
		return nil, ErrNoStore
	}
	entries, err := a.store.List(ctx)
	if entries == nil {
		entries = []store.Entry{}
	}
	return entries, err
}

// Delete removes a stored sketch.
func (a *App) Delete(ctx context.Context, name string) error {
	if a.store == nil {
		return ErrNoStore
	}
	return a.store.Delete(ctx, name)
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// Export formats supported by ExportSketch.
const (
	FormatDXF = "dxf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// ExportSketch renders the stored sketch name in the given format.
func (a *App) ExportSketch(ctx context.Context, name, format string) ([]byte, error) {
	s, err := a.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return a.export(s, format)
}

// ExportDXF renders the stored sketch name as DXF.
func (a *App) ExportDXF(ctx context.Context, name string) ([]byte, error) {
	return a.ExportSketch(ctx, name, FormatDXF)
}

func (a *App) export(s *sketch.Sketch, format string) ([]byte, error) {
	segments := a.cfg.Export.CircleSegments
	if format == FormatPNG {
		var buf bytes.Buffer
		b := png.NewWriter(&buf, a.cfg.Export.PNGWidth, a.cfg.Export.PNGHeight)
		if err := export.Sketch(b, s, segments); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	// The sdfx writers only write to files.
	dir, err := os.MkdirTemp("", "sketch-export-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "out."+format)

	var b export.Backend
	switch format {
	case FormatDXF:
		b = dxf.New(path)
	case FormatSVG:
		b = svg.New(path, "")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := export.Sketch(b, s, segments); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

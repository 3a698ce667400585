package snap

import (
	"math"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

const (
	// InferenceAngleTolerance is the angular window, in degrees, within
	// which a drawn direction locks to horizontal, vertical or
	// perpendicular.
	InferenceAngleTolerance = 5.0

	// MinInferenceLength is the shortest drag, in model units, from which
	// a direction is inferred. Reference lines must also be longer.
	MinInferenceLength = 0.1

	// SharedStartEpsilon is how close a line endpoint must be to the start
	// point for the line to count as sharing it.
	SharedStartEpsilon = 0.1
)

// InferenceKind is the direction a drawn line was locked to.
type InferenceKind int

const (
	InferHorizontal    InferenceKind = iota // end point shares the start's Y
	InferVertical                           // end point shares the start's X
	InferPerpendicular                      // square to RefLine
)

func (k InferenceKind) String() string {
	switch k {
	case InferHorizontal:
		return "horizontal"
	case InferVertical:
		return "vertical"
	case InferPerpendicular:
		return "perpendicular"
	default:
		return "unknown"
	}
}

// Inference is a suggested direction lock. Point is the adjusted end
// point; RefLine is set for perpendicular inferences.
type Inference struct {
	Kind    InferenceKind
	Point   geom.Point
	RefLine sketch.ShapeID
}

// FindInference checks whether a line drawn from start toward end is
// within InferenceAngleTolerance of horizontal, vertical, or perpendicular
// to a reference line, in that order of preference. The reference line is
// hint when it is a line target, otherwise the most recently created line
// with an endpoint at start.
func (e *Engine) FindInference(start, end geom.Point, hint *Target) (Inference, bool) {
	d := end.Sub(start)
	l := math.Hypot(d.X, d.Y)
	if l < MinInferenceLength {
		return Inference{}, false
	}
	angle := math.Atan2(d.Y, d.X)
	tol := geom.Radians(InferenceAngleTolerance)

	if horizontal := math.Min(math.Abs(angle), math.Abs(math.Abs(angle)-math.Pi)); horizontal < tol {
		return Inference{Kind: InferHorizontal, Point: geom.Pt(end.X, start.Y)}, true
	}
	if vertical := math.Abs(math.Abs(angle) - math.Pi/2); vertical < tol {
		return Inference{Kind: InferVertical, Point: geom.Pt(start.X, end.Y)}, true
	}

	ref, ok := e.referenceLine(start, hint)
	if !ok {
		return Inference{}, false
	}
	a, b, _ := e.s.Endpoints(ref)
	if geom.Dist(a, b) <= MinInferenceLength {
		return Inference{}, false
	}
	refAngle := geom.Angle(a, b)
	plus, minus := refAngle+math.Pi/2, refAngle-math.Pi/2
	dPlus := math.Abs(geom.AngleDiff(angle, plus))
	dMinus := math.Abs(geom.AngleDiff(angle, minus))
	perp := plus
	if dMinus < dPlus {
		perp = minus
	}
	if math.Min(dPlus, dMinus) >= tol {
		return Inference{}, false
	}
	p := start.Add(geom.Pt(math.Cos(perp), math.Sin(perp)).MulScalar(l))
	return Inference{Kind: InferPerpendicular, Point: p, RefLine: ref}, true
}

func (e *Engine) referenceLine(start geom.Point, hint *Target) (sketch.ShapeID, bool) {
	if hint != nil && hint.Kind == TargetLine {
		if sh, ok := e.s.Shape(hint.Shape); ok && sh.IsLine() {
			if _, _, ok := e.s.Endpoints(sh.ID); ok {
				return sh.ID, true
			}
		}
	}
	shapes := e.s.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		sh := shapes[i]
		if !sh.IsLine() {
			continue
		}
		a, b, ok := e.s.Endpoints(sh.ID)
		if !ok {
			continue
		}
		if geom.Dist(start, a) < SharedStartEpsilon || geom.Dist(start, b) < SharedStartEpsilon {
			return sh.ID, true
		}
	}
	return "", false
}

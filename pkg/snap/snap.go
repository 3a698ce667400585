// Package snap resolves pointer positions into sketch targets: joints,
// points on lines and points on circles. It also detects the coincident
// clusters that move together and offers directional inference while a
// line is being drawn. The engine only reads the sketch.
package snap

import (
	"math"
	"slices"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

// TargetKind distinguishes snap results.
type TargetKind int

const (
	TargetJoint  TargetKind = iota // an existing joint
	TargetLine                     // nearest point on a line segment
	TargetCircle                   // nearest point on a circle outline
)

func (k TargetKind) String() string {
	switch k {
	case TargetJoint:
		return "joint"
	case TargetLine:
		return "line"
	case TargetCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Target is the result of a hit-test or snap. Joint is set for
// TargetJoint, Shape for TargetLine and TargetCircle. Point is the
// snapped position in model space.
type Target struct {
	Kind  TargetKind
	Joint sketch.JointID
	Shape sketch.ShapeID
	Point geom.Point
}

// SnapOptions tunes FindSnap.
type SnapOptions struct {
	// Exclude lists joints that are never targets, typically the joints
	// being dragged. Lines using any of them are skipped too.
	Exclude []sketch.JointID
	// ExcludeLines disables line snapping.
	ExcludeLines bool
	// Tight selects the inference joint tolerance, used while drawing so
	// snapping does not fight free-hand input.
	Tight bool
}

// Engine answers spatial queries against one sketch.
type Engine struct {
	s   *sketch.Sketch
	m   Mapper
	tol Tolerances
}

// NewEngine returns an engine over s. A nil mapper selects IdentityMapper;
// zero tolerance fields take their defaults.
func NewEngine(s *sketch.Sketch, m Mapper, tol Tolerances) *Engine {
	if m == nil {
		m = IdentityMapper{}
	}
	return &Engine{s: s, m: m, tol: tol.withDefaults()}
}

// Tolerances returns the tolerances in effect.
func (e *Engine) Tolerances() Tolerances { return e.tol }

// deviceDist is the device-space distance between two model points.
func (e *Engine) deviceDist(a, b geom.Point) float64 {
	return geom.Dist(e.m.ToDevice(a), e.m.ToDevice(b))
}

// HitJoint returns the joint nearest to p within threshold. A threshold
// of zero or less selects the default. On equal distance the joint
// inserted first wins.
func (e *Engine) HitJoint(p geom.Point, threshold float64) (Target, bool) {
	if threshold <= 0 {
		threshold = e.tol.HitJoint
	}
	return e.nearestJoint(p, threshold, nil)
}

func (e *Engine) nearestJoint(p geom.Point, threshold float64, exclude []sketch.JointID) (Target, bool) {
	var best Target
	found := false
	bestD := threshold
	for _, j := range e.s.Joints() {
		if slices.Contains(exclude, j.ID) {
			continue
		}
		if d := e.deviceDist(j.Position, p); d < bestD {
			bestD = d
			best = Target{Kind: TargetJoint, Joint: j.ID, Point: j.Position}
			found = true
		}
	}
	return best, found
}

// HitLine returns the nearest point on any line segment within threshold.
func (e *Engine) HitLine(p geom.Point, threshold float64) (Target, bool) {
	if threshold <= 0 {
		threshold = e.tol.HitLine
	}
	return e.nearestLine(p, threshold, nil)
}

func (e *Engine) nearestLine(p geom.Point, threshold float64, exclude []sketch.JointID) (Target, bool) {
	var best Target
	found := false
	bestD := threshold
	for _, sh := range e.s.Shapes() {
		if !sh.IsLine() {
			continue
		}
		if slices.Contains(exclude, sh.Joints[0]) || slices.Contains(exclude, sh.Joints[1]) {
			continue
		}
		a, b, ok := e.s.Endpoints(sh.ID)
		if !ok {
			continue
		}
		proj := geom.ProjectOnSegment(p, a, b)
		if d := e.deviceDist(proj, p); d < bestD {
			bestD = d
			best = Target{Kind: TargetLine, Shape: sh.ID, Point: proj}
			found = true
		}
	}
	return best, found
}

// HitCircle returns the nearest point on any circle circumference within
// threshold. Circles of zero radius are skipped. A query at the exact
// center projects onto the point of the circle on the +x axis.
func (e *Engine) HitCircle(p geom.Point, threshold float64) (Target, bool) {
	if threshold <= 0 {
		threshold = e.tol.HitCircle
	}
	var best Target
	found := false
	bestD := threshold
	for _, sh := range e.s.Shapes() {
		if !sh.IsCircle() {
			continue
		}
		center, rim, ok := e.s.Endpoints(sh.ID)
		if !ok {
			continue
		}
		r := geom.Dist(center, rim)
		if r <= geom.Epsilon {
			continue
		}
		on := radialProjection(p, center, r)
		if d := e.deviceDist(on, p); d < bestD {
			bestD = d
			best = Target{Kind: TargetCircle, Shape: sh.ID, Point: on}
			found = true
		}
	}
	return best, found
}

func radialProjection(p, center geom.Point, r float64) geom.Point {
	v := p.Sub(center)
	l := math.Hypot(v.X, v.Y)
	if l == 0 {
		return geom.Pt(center.X+r, center.Y)
	}
	return center.Add(v.MulScalar(r / l))
}

// FindSnap resolves p into a snap target. Joints always win over lines:
// lines are only considered when no joint is within the joint tolerance.
func (e *Engine) FindSnap(p geom.Point, opts SnapOptions) (Target, bool) {
	jointTol := e.tol.Joint
	if opts.Tight {
		jointTol = e.tol.InferenceJoint
	}
	if t, ok := e.nearestJoint(p, jointTol, opts.Exclude); ok {
		return t, true
	}
	if opts.ExcludeLines {
		return Target{}, false
	}
	return e.nearestLine(p, e.tol.Line, opts.Exclude)
}

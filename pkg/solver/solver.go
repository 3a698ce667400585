package solver

import (
	"context"
	"log/slog"
	"math"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

const (
	// DefaultIterations is the pass count used when Solve is given zero.
	DefaultIterations = 20

	// Damping is the fraction of the remaining error corrected per pass by
	// distance, pointOnLine, collinear and tangent constraints.
	Damping = 0.5

	// TangentTolerance is the distance error below which a tangent
	// constraint is considered satisfied and left alone.
	TangentTolerance = 1e-3
)

// Solve runs the given number of relaxation passes over every constraint of
// s, moving free joints in place. iterations <= 0 selects
// DefaultIterations. Solve never fails: unresolvable or degenerate
// constraints are skipped.
func Solve(s *sketch.Sketch, iterations int) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	constraints := s.Constraints()
	for range iterations {
		for _, c := range constraints {
			apply(s, c)
		}
	}
	if log := sketch.Logger(); log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("solve complete",
			slog.Int("iterations", iterations),
			slog.Int("constraints", len(constraints)),
			slog.Float64("residual", TotalResidual(s)),
		)
	}
}

// apply performs one damped correction for c.
func apply(s *sketch.Sketch, c sketch.Constraint) {
	switch c := c.(type) {
	case sketch.Coincident:
		a, b := s.Joint(c.A), s.Joint(c.B)
		if a == nil || b == nil {
			return
		}
		m := geom.Midpoint(a.Position, b.Position)
		set(a, m)
		set(b, m)
	case sketch.Horizontal:
		a, b := s.Joint(c.A), s.Joint(c.B)
		if a == nil || b == nil {
			return
		}
		y := (a.Position.Y + b.Position.Y) / 2
		set(a, geom.Pt(a.Position.X, y))
		set(b, geom.Pt(b.Position.X, y))
	case sketch.Vertical:
		a, b := s.Joint(c.A), s.Joint(c.B)
		if a == nil || b == nil {
			return
		}
		x := (a.Position.X + b.Position.X) / 2
		set(a, geom.Pt(x, a.Position.Y))
		set(b, geom.Pt(x, b.Position.Y))
	case sketch.Distance:
		applyDistance(s, c)
	case sketch.Parallel:
		applyAngle(s, c.First, c.Second, false)
	case sketch.Perpendicular:
		applyAngle(s, c.First, c.Second, true)
	case sketch.PointOnLine:
		applyPointOnLine(s, c)
	case sketch.Collinear:
		applyCollinear(s, c)
	case sketch.Tangent:
		applyTangent(s, c)
	}
}

// set moves a free joint to p. Fixed joints are left alone.
func set(j *sketch.Joint, p geom.Point) {
	if j.Fixed {
		return
	}
	j.Position = p
}

func applyDistance(s *sketch.Sketch, c sketch.Distance) {
	a, b := s.Joint(c.A), s.Joint(c.B)
	if a == nil || b == nil {
		return
	}
	d := b.Position.Sub(a.Position)
	l := d.Length()
	if l < geom.Epsilon {
		return
	}
	step := d.MulScalar((l - c.Value) / l * Damping)
	set(a, a.Position.Add(step))
	set(b, b.Position.Sub(step))
}

// lineJoints resolves the endpoint joints of a line shape.
func lineJoints(s *sketch.Sketch, id sketch.ShapeID) (a, b *sketch.Joint, ok bool) {
	sh, found := s.Shape(id)
	if !found || !sh.IsLine() {
		return nil, nil, false
	}
	a, b = s.Joint(sh.Joints[0]), s.Joint(sh.Joints[1])
	return a, b, a != nil && b != nil
}

// targetAngle returns the direction the second line should take. For
// perpendicular constraints the side closest to the second line's current
// direction wins, so the line does not flip between passes.
func targetAngle(ref, current float64, perpendicular bool) float64 {
	if !perpendicular {
		return ref
	}
	plus, minus := ref+math.Pi/2, ref-math.Pi/2
	if math.Abs(geom.AngleDiff(plus, current)) < math.Abs(geom.AngleDiff(minus, current)) {
		return plus
	}
	return minus
}

func applyAngle(s *sketch.Sketch, first, second sketch.ShapeID, perpendicular bool) {
	a, b, ok1 := lineJoints(s, first)
	p, q, ok2 := lineJoints(s, second)
	if !ok1 || !ok2 {
		return
	}
	if geom.Dist(a.Position, b.Position) < geom.Epsilon {
		return
	}
	ref := geom.Angle(a.Position, b.Position)
	target := targetAngle(ref, geom.Angle(p.Position, q.Position), perpendicular)

	l := geom.Dist(p.Position, q.Position)
	if l == 0 {
		l = 1
	}
	mid := geom.Midpoint(p.Position, q.Position)
	half := geom.Pt(math.Cos(target), math.Sin(target)).MulScalar(l / 2)
	set(p, mid.Sub(half))
	set(q, mid.Add(half))
}

func applyPointOnLine(s *sketch.Sketch, c sketch.PointOnLine) {
	pt := s.Joint(c.Joint)
	a, b, ok := lineJoints(s, c.Line)
	if pt == nil || !ok || pt.Fixed {
		return
	}
	proj := geom.ProjectOnSegment(pt.Position, a.Position, b.Position)
	set(pt, geom.Lerp(pt.Position, proj, Damping))
}

func applyCollinear(s *sketch.Sketch, c sketch.Collinear) {
	pts := make([]*sketch.Joint, 0, len(c.Joints))
	for _, id := range c.Joints {
		if j := s.Joint(id); j != nil {
			pts = append(pts, j)
		}
	}
	if len(pts) < 3 {
		return
	}
	p0, p1 := pts[0].Position, pts[1].Position
	if geom.Dist(p0, p1) < geom.Epsilon {
		return
	}
	for _, j := range pts[2:] {
		proj := geom.ProjectOnLine(j.Position, p0, p1)
		set(j, geom.Lerp(j.Position, proj, Damping))
	}
}

// circleJoints resolves the center and radius joints of a circle shape.
func circleJoints(s *sketch.Sketch, id sketch.ShapeID) (center, rim *sketch.Joint, ok bool) {
	sh, found := s.Shape(id)
	if !found || !sh.IsCircle() {
		return nil, nil, false
	}
	center, rim = s.Joint(sh.Center()), s.Joint(sh.RadiusPoint())
	return center, rim, center != nil && rim != nil
}

// tangentError returns the signed gap between the line and the circle
// (positive when the line is too far from the center) and the unit normal
// pointing from the line toward the center.
func tangentError(a, b, center, rim geom.Point) (gap float64, normal geom.Point, ok bool) {
	d := b.Sub(a)
	l := d.Length()
	if l < geom.Epsilon {
		return 0, geom.Point{}, false
	}
	proj := geom.ProjectOnSegment(center, a, b)
	gap = geom.Dist(center, proj) - geom.Dist(center, rim)
	normal = geom.Pt(-d.Y/l, d.X/l)
	if center.Sub(proj).Dot(normal) < 0 {
		normal = normal.MulScalar(-1)
	}
	return gap, normal, true
}

func applyTangent(s *sketch.Sketch, c sketch.Tangent) {
	a, b, ok1 := lineJoints(s, c.Line)
	center, rim, ok2 := circleJoints(s, c.Circle)
	if !ok1 || !ok2 {
		return
	}
	gap, n, ok := tangentError(a.Position, b.Position, center.Position, rim.Position)
	if !ok || math.Abs(gap) <= TangentTolerance {
		return
	}
	step := n.MulScalar(gap * Damping)
	set(a, a.Position.Add(step))
	set(b, b.Position.Add(step))
}

package solver

import (
	"math"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

// Residual measures how far c is from satisfied in the current state of s:
// a length for positional constraints, radians for parallel and
// perpendicular. It returns false when c cannot be evaluated because a
// reference is missing or the geometry is degenerate.
func Residual(s *sketch.Sketch, c sketch.Constraint) (float64, bool) {
	switch c := c.(type) {
	case sketch.Coincident:
		a, b, ok := positions(s, c.A, c.B)
		if !ok {
			return 0, false
		}
		return geom.Dist(a, b), true
	case sketch.Horizontal:
		a, b, ok := positions(s, c.A, c.B)
		if !ok {
			return 0, false
		}
		return math.Abs(a.Y - b.Y), true
	case sketch.Vertical:
		a, b, ok := positions(s, c.A, c.B)
		if !ok {
			return 0, false
		}
		return math.Abs(a.X - b.X), true
	case sketch.Distance:
		a, b, ok := positions(s, c.A, c.B)
		if !ok {
			return 0, false
		}
		return math.Abs(geom.Dist(a, b) - c.Value), true
	case sketch.Parallel:
		return angleResidual(s, c.First, c.Second, false)
	case sketch.Perpendicular:
		return angleResidual(s, c.First, c.Second, true)
	case sketch.PointOnLine:
		p, ok := s.Position(c.Joint)
		a, b, lok := lineJoints(s, c.Line)
		if !ok || !lok {
			return 0, false
		}
		return geom.Dist(p, geom.ProjectOnSegment(p, a.Position, b.Position)), true
	case sketch.Collinear:
		return collinearResidual(s, c)
	case sketch.Tangent:
		a, b, ok1 := lineJoints(s, c.Line)
		center, rim, ok2 := circleJoints(s, c.Circle)
		if !ok1 || !ok2 {
			return 0, false
		}
		gap, _, ok := tangentError(a.Position, b.Position, center.Position, rim.Position)
		if !ok {
			return 0, false
		}
		return math.Abs(gap), true
	}
	return 0, false
}

// TotalResidual sums the residual of every evaluable constraint of s.
func TotalResidual(s *sketch.Sketch) float64 {
	var total float64
	for _, c := range s.Constraints() {
		if r, ok := Residual(s, c); ok {
			total += r
		}
	}
	return total
}

func positions(s *sketch.Sketch, a, b sketch.JointID) (pa, pb geom.Point, ok bool) {
	pa, ok1 := s.Position(a)
	pb, ok2 := s.Position(b)
	return pa, pb, ok1 && ok2
}

func angleResidual(s *sketch.Sketch, first, second sketch.ShapeID, perpendicular bool) (float64, bool) {
	a, b, ok1 := lineJoints(s, first)
	p, q, ok2 := lineJoints(s, second)
	if !ok1 || !ok2 {
		return 0, false
	}
	if geom.Dist(a.Position, b.Position) < geom.Epsilon || geom.Dist(p.Position, q.Position) < geom.Epsilon {
		return 0, false
	}
	current := geom.Angle(p.Position, q.Position)
	target := targetAngle(geom.Angle(a.Position, b.Position), current, perpendicular)
	return math.Abs(geom.AngleDiff(target, current)), true
}

func collinearResidual(s *sketch.Sketch, c sketch.Collinear) (float64, bool) {
	var pts []geom.Point
	for _, id := range c.Joints {
		if p, ok := s.Position(id); ok {
			pts = append(pts, p)
		}
	}
	if len(pts) < 3 || geom.Dist(pts[0], pts[1]) < geom.Epsilon {
		return 0, false
	}
	var total float64
	for _, p := range pts[2:] {
		total += geom.Dist(p, geom.ProjectOnLine(p, pts[0], pts[1]))
	}
	return total, true
}

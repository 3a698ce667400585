// Package flatten walks a sketch and converts every shape into a polyline
// that export backends can draw. One polyline is produced per shape.
package flatten

import (
	"math"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

// DefaultCircleSegments is the number of chords used for a circle when the
// caller passes zero.
const DefaultCircleSegments = 64

// minCircleSegments keeps tiny segment counts from collapsing a circle.
const minCircleSegments = 8

// Polyline is an ordered run of points. Closed polylines repeat their first
// point at the end.
type Polyline struct {
	Shape  sketch.ShapeID
	Points []geom.Point
	Closed bool
}

// Segments returns the number of straight pieces in the polyline.
func (p Polyline) Segments() int {
	if len(p.Points) < 2 {
		return 0
	}
	return len(p.Points) - 1
}

// Bounds returns the axis-aligned bounding box of all polylines. ok is false
// when there are no points.
func Bounds(lines []Polyline) (min, max geom.Point, ok bool) {
	min = geom.Pt(math.Inf(1), math.Inf(1))
	max = geom.Pt(math.Inf(-1), math.Inf(-1))
	for _, l := range lines {
		for _, p := range l.Points {
			min = geom.Pt(math.Min(min.X, p.X), math.Min(min.Y, p.Y))
			max = geom.Pt(math.Max(max.X, p.X), math.Max(max.Y, p.Y))
			ok = true
		}
	}
	return min, max, ok
}

// Flatten produces one polyline per shape of s, in creation order. Shapes
// whose joints are missing are skipped. Flatten never mutates the sketch.
func Flatten(s *sketch.Sketch, circleSegments int) []Polyline {
	if s == nil {
		return nil
	}
	if circleSegments <= 0 {
		circleSegments = DefaultCircleSegments
	}
	circleSegments = max(circleSegments, minCircleSegments)

	var out []Polyline
	for _, sh := range s.Shapes() {
		a, b, ok := s.Endpoints(sh.ID)
		if !ok {
			continue
		}
		switch sh.Kind {
		case sketch.ShapeLine:
			out = append(out, Polyline{Shape: sh.ID, Points: []geom.Point{a, b}})
		case sketch.ShapeCircle:
			out = append(out, circle(sh.ID, a, geom.Dist(a, b), circleSegments))
		}
	}
	return out
}

// circle approximates a circle by an inscribed regular polygon starting at
// angle zero.
func circle(id sketch.ShapeID, center geom.Point, r float64, n int) Polyline {
	pts := make([]geom.Point, 0, n+1)
	for i := range n {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, geom.Pt(center.X+r*math.Cos(theta), center.Y+r*math.Sin(theta)))
	}
	pts = append(pts, pts[0])
	return Polyline{Shape: id, Points: pts, Closed: true}
}

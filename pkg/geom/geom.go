// Package geom provides the 2D point type shared by the sketch model, the
// solver and the snap engine, plus the projection helpers they use.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Epsilon is the length below which a segment or vector is degenerate.
const Epsilon = 1e-6

// Point is a 2D position or vector in model space.
type Point = v2.Vec

// Pt is a convenience constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Lerp moves t of the way from a toward b.
func Lerp(a, b Point, t float64) Point {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Angle returns the direction of the vector from a to b in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// ProjectOnSegment returns the point on segment ab closest to p. The
// projection parameter is clamped to [0, 1]. A zero-length segment
// projects everything onto a.
func ProjectOnSegment(p, a, b Point) Point {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(d.MulScalar(t))
}

// ProjectOnLine returns the orthogonal projection of p onto the infinite
// line through a and b.
func ProjectOnLine(p, a, b Point) Point {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(d) / l2
	return a.Add(d.MulScalar(t))
}

// NormalizeAngle wraps an angle in radians into [-π, π].
func NormalizeAngle(a float64) float64 {
	return math.Atan2(math.Sin(a), math.Cos(a))
}

// AngleDiff returns the smallest signed difference a-b wrapped into [-π, π].
func AngleDiff(a, b float64) float64 {
	return NormalizeAngle(a - b)
}

// IsFinite reports whether both coordinates are finite numbers.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

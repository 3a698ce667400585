package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestProjectOnSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"interior", Pt(4, 3), Pt(4, 0)},
		{"before start clamps", Pt(-5, 2), Pt(0, 0)},
		{"past end clamps", Pt(15, -2), Pt(10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectOnSegment(tt.p, a, b)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("ProjectOnSegment(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestProjectOnLineIsUnclamped(t *testing.T) {
	got := ProjectOnLine(Pt(15, -2), Pt(0, 0), Pt(10, 0))
	if !near(got.X, 15) || !near(got.Y, 0) {
		t.Errorf("ProjectOnLine = %v, want (15, 0)", got)
	}
}

func TestProjectDegenerateSegment(t *testing.T) {
	a := Pt(3, 3)
	if got := ProjectOnSegment(Pt(7, 1), a, a); got != a {
		t.Errorf("segment projection onto point = %v, want %v", got, a)
	}
	if got := ProjectOnLine(Pt(7, 1), a, a); got != a {
		t.Errorf("line projection onto point = %v, want %v", got, a)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi / 4, -3 * math.Pi / 4},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); !near(got, tt.want) {
			t.Errorf("NormalizeAngle(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestMidpointAndLerp(t *testing.T) {
	m := Midpoint(Pt(0, 0), Pt(10, 10))
	if !near(m.X, 5) || !near(m.Y, 5) {
		t.Errorf("Midpoint = %v", m)
	}
	l := Lerp(Pt(0, 0), Pt(10, 0), 0.25)
	if !near(l.X, 2.5) || !near(l.Y, 0) {
		t.Errorf("Lerp = %v", l)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(Pt(1, 2)) {
		t.Error("finite point reported non-finite")
	}
	if IsFinite(Pt(math.NaN(), 0)) || IsFinite(Pt(0, math.Inf(1))) {
		t.Error("non-finite point reported finite")
	}
}

package sketch

import (
	"testing"

	"github.com/chazu/sketch/pkg/geom"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		p    Params
		ok   bool
	}{
		{"coincident", KindCoincident, Params{Joints: []JointID{"a", "b"}}, true},
		{"coincident self", KindCoincident, Params{Joints: []JointID{"a", "a"}}, false},
		{"coincident one joint", KindCoincident, Params{Joints: []JointID{"a"}}, false},
		{"horizontal", KindHorizontal, Params{Joints: []JointID{"a", "b"}}, true},
		{"vertical short", KindVertical, Params{Joints: nil}, false},
		{"distance", KindDistance, Params{Joints: []JointID{"a", "b"}, Value: 5}, true},
		{"parallel", KindParallel, Params{Shapes: []ShapeID{"l1", "l2"}}, true},
		{"perpendicular one shape", KindPerpendicular, Params{Shapes: []ShapeID{"l1"}}, false},
		{"pointOnLine", KindPointOnLine, Params{Joint: "a", Shape: "l1"}, true},
		{"pointOnLine no shape", KindPointOnLine, Params{Joint: "a"}, false},
		{"collinear", KindCollinear, Params{Joints: []JointID{"a", "b", "c"}}, true},
		{"collinear two joints", KindCollinear, Params{Joints: []JointID{"a", "b"}}, false},
		{"tangent", KindTangent, Params{Line: "l1", Circle: "c1"}, true},
		{"tangent no circle", KindTangent, Params{Line: "l1"}, false},
		{"unknown kind", Kind(42), Params{Joints: []JointID{"a", "b"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Create(tt.kind, tt.p)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && c.Kind() != tt.kind {
				t.Errorf("Kind = %v, want %v", c.Kind(), tt.kind)
			}
		})
	}
}

func TestCreateDistanceDefaults(t *testing.T) {
	c, ok := Create(KindDistance, Params{Joints: []JointID{"a", "b"}, Value: 7})
	if !ok {
		t.Fatal("Create failed")
	}
	d := c.(Distance)
	if d.Offset != DefaultDistanceOffset || d.IsRadius || d.Value != 7 {
		t.Errorf("distance = %+v", d)
	}
}

func TestCreateCopiesCollinearJoints(t *testing.T) {
	joints := []JointID{"a", "b", "c"}
	c, _ := Create(KindCollinear, Params{Joints: joints})
	joints[0] = "zz"
	if c.(Collinear).Joints[0] != "a" {
		t.Error("collinear shares caller's slice")
	}
}

func TestIsDuplicate(t *testing.T) {
	existing := []Constraint{
		Coincident{A: "a", B: "b"},
		Horizontal{A: "a", B: "b"},
		Parallel{First: "l1", Second: "l2"},
		PointOnLine{Joint: "a", Line: "l1"},
		Tangent{Line: "l1", Circle: "c1"},
		Collinear{Joints: []JointID{"a", "b", "c"}},
		Distance{A: "a", B: "b", Value: 5},
	}
	tests := []struct {
		name string
		kind Kind
		p    Params
		want bool
	}{
		{"coincident same order", KindCoincident, Params{Joints: []JointID{"a", "b"}}, true},
		{"coincident swapped", KindCoincident, Params{Joints: []JointID{"b", "a"}}, true},
		{"coincident other pair", KindCoincident, Params{Joints: []JointID{"a", "c"}}, false},
		{"horizontal swapped", KindHorizontal, Params{Joints: []JointID{"b", "a"}}, true},
		{"vertical not stored", KindVertical, Params{Joints: []JointID{"a", "b"}}, false},
		{"parallel swapped", KindParallel, Params{Shapes: []ShapeID{"l2", "l1"}}, true},
		{"perpendicular not stored", KindPerpendicular, Params{Shapes: []ShapeID{"l1", "l2"}}, false},
		{"pointOnLine exact", KindPointOnLine, Params{Joint: "a", Shape: "l1"}, true},
		{"pointOnLine other joint", KindPointOnLine, Params{Joint: "b", Shape: "l1"}, false},
		{"tangent exact", KindTangent, Params{Line: "l1", Circle: "c1"}, true},
		{"tangent roles swapped", KindTangent, Params{Line: "c1", Circle: "l1"}, false},
		{"collinear permuted", KindCollinear, Params{Joints: []JointID{"c", "a", "b"}}, true},
		{"collinear superset", KindCollinear, Params{Joints: []JointID{"a", "b", "c", "d"}}, false},
		{"distance other value", KindDistance, Params{Joints: []JointID{"b", "a"}, Value: 9}, true},
		{"short params", KindCoincident, Params{Joints: []JointID{"a"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicate(existing, tt.kind, tt.p); got != tt.want {
				t.Errorf("IsDuplicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddConstraintRejectsSwappedDuplicate(t *testing.T) {
	s := buildSquare(t)
	if !s.AddConstraint(KindCoincident, Params{Joints: []JointID{"a", "b"}}) {
		t.Fatal("first add rejected")
	}
	if s.AddConstraint(KindCoincident, Params{Joints: []JointID{"b", "a"}}) {
		t.Error("swapped duplicate accepted")
	}
	if s.ConstraintCount() != 1 {
		t.Errorf("ConstraintCount = %d, want 1", s.ConstraintCount())
	}
}

func TestAddConstraintRefusesPreview(t *testing.T) {
	s := buildSquare(t)
	if s.AddConstraint(KindHorizontal, Params{Joints: []JointID{"a", "b"}, Preview: true}) {
		t.Error("preview accepted")
	}
	if s.ConstraintCount() != 0 {
		t.Errorf("ConstraintCount = %d, want 0", s.ConstraintCount())
	}
}

func TestAddConstraintChecksReferences(t *testing.T) {
	s := buildSquare(t)
	mustJoint(t, s, "ctr", geom.Pt(40, 40))
	mustJoint(t, s, "rim", geom.Pt(45, 40))
	mustCircle(t, s, "circ", "ctr", "rim")

	tests := []struct {
		name string
		kind Kind
		p    Params
		want bool
	}{
		{"missing joint", KindCoincident, Params{Joints: []JointID{"a", "nope"}}, false},
		{"missing shape", KindParallel, Params{Shapes: []ShapeID{"ab", "nope"}}, false},
		{"parallel on circle", KindParallel, Params{Shapes: []ShapeID{"ab", "circ"}}, false},
		{"pointOnLine on circle", KindPointOnLine, Params{Joint: "a", Shape: "circ"}, false},
		{"tangent roles swapped", KindTangent, Params{Line: "circ", Circle: "ab"}, false},
		{"tangent", KindTangent, Params{Line: "ab", Circle: "circ"}, true},
		{"perpendicular", KindPerpendicular, Params{Shapes: []ShapeID{"ab", "bc"}}, true},
		{"collinear missing", KindCollinear, Params{Joints: []JointID{"a", "b", "nope"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.AddConstraint(tt.kind, tt.p); got != tt.want {
				t.Errorf("AddConstraint = %v, want %v", got, tt.want)
			}
		})
	}
	if s.ConstraintCount() != 2 {
		t.Errorf("ConstraintCount = %d, want 2", s.ConstraintCount())
	}
}

func TestAddConstraintCollapsesLegacyEncoding(t *testing.T) {
	s := buildSquare(t)
	// Second line given reversed (d, c) still resolves to "cd".
	if !s.AddConstraint(KindParallel, Params{Joints: []JointID{"a", "b", "d", "c"}}) {
		t.Fatal("legacy parallel rejected")
	}
	got := s.Constraints()[0]
	want := Parallel{First: "ab", Second: "cd"}
	if got != want {
		t.Errorf("constraint = %#v, want %#v", got, want)
	}
	if s.AddConstraint(KindParallel, Params{Shapes: []ShapeID{"cd", "ab"}}) {
		t.Error("shape form duplicate of legacy form accepted")
	}
	if s.AddConstraint(KindPerpendicular, Params{Joints: []JointID{"a", "c", "b", "d"}}) {
		t.Error("legacy form without matching lines accepted")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Constraint
		want bool
	}{
		{"coincident swapped", Coincident{"a", "b"}, Coincident{"b", "a"}, true},
		{"kinds differ", Horizontal{"a", "b"}, Vertical{"a", "b"}, false},
		{"distance same", Distance{A: "a", B: "b", Value: 3}, Distance{A: "b", B: "a", Value: 3, Offset: 12}, true},
		{"distance values differ", Distance{A: "a", B: "b", Value: 3}, Distance{A: "a", B: "b", Value: 4}, false},
		{"nil", nil, Coincident{"a", "b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for k := KindCoincident; k <= KindTangent; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("symmetric"); ok {
		t.Error("unknown tag parsed")
	}
}

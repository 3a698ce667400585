package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(joint 1 2 :name "a")`,
			expect: `(joint 1 2 "__kw_name" "a")`,
		},
		{
			name:   "multiple keywords",
			input:  `(distance a b 40 :offset 20 :radius)`,
			expect: `(distance a b 40 "__kw_offset" 20 "__kw_radius")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote inside string",
			input:  `"say \"a-b\"" :x`,
			expect: `"say \"a-b\"" "__kw_x"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :kw a-b`",
			expect: "`raw :kw a-b`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(point-on-line j l)`,
			expect: `(point_on_line j l)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(pt -10 x-1)`,
			expect: `(pt -10 x-1)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:snap-to`,
			expect: `"__kw_snap-to"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Geometry builtins
// ---------------------------------------------------------------------------

func position(t *testing.T, s *sketch.Sketch, id sketch.JointID) geom.Point {
	t.Helper()
	p, ok := s.Position(id)
	if !ok {
		t.Fatalf("joint %q missing", id)
	}
	return p
}

func TestNamedJointsAndLine(t *testing.T) {
	source := `
(def a (joint 10 0 :name "a"))
(def b (joint 40 0 :name "b" :fixed))
(line a b :name "ab" :group "g1")
`
	s := mustEval(t, NewEngine(), source)

	if p := position(t, s, "a"); p != geom.Pt(10, 0) {
		t.Errorf("a = %v", p)
	}
	if !s.Joint("b").Fixed {
		t.Error("b should be fixed")
	}
	if s.Joint("a").Fixed {
		t.Error("a should be free")
	}
	sh, ok := s.Shape("ab")
	if !ok {
		t.Fatal("line ab missing")
	}
	if !sh.IsLine() || sh.Joints != [2]sketch.JointID{"a", "b"} || sh.GroupID != "g1" {
		t.Errorf("line = %+v", sh)
	}
}

func TestPointArgumentsCreateJoints(t *testing.T) {
	s := mustEval(t, NewEngine(), `(line (pt 0 10) (pt 20 10))`)
	if s.JointCount() != 3 {
		t.Fatalf("JointCount = %d, want 3", s.JointCount())
	}
	shapes := s.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("ShapeCount = %d, want 1", len(shapes))
	}
	a, b, ok := s.Endpoints(shapes[0].ID)
	if !ok || a != geom.Pt(0, 10) || b != geom.Pt(20, 10) {
		t.Errorf("endpoints = %v %v", a, b)
	}
}

func TestJointOnOriginAutoCoincides(t *testing.T) {
	s := mustEval(t, NewEngine(), `(joint 0 0)`)
	cs := s.Constraints()
	if len(cs) != 1 {
		t.Fatalf("ConstraintCount = %d, want 1", len(cs))
	}
	c, ok := cs[0].(sketch.Coincident)
	if !ok || c.B != sketch.OriginID {
		t.Errorf("constraint = %#v", cs[0])
	}

	s = mustEval(t, NewEngine(WithAutoCoincide(false)), `(joint 0 0)`)
	if s.ConstraintCount() != 0 {
		t.Errorf("auto-coincide disabled, got %d constraints", s.ConstraintCount())
	}
}

func TestJointLookup(t *testing.T) {
	source := `
(joint 5 5 :name "p")
(line (j "p") (origin))
`
	s := mustEval(t, NewEngine(), source)
	sh := s.Shapes()[0]
	if sh.Joints != [2]sketch.JointID{"p", sketch.OriginID} {
		t.Errorf("joints = %v", sh.Joints)
	}
}

func TestJointLookupError(t *testing.T) {
	s, evalErrs, err := NewEngine().Evaluate(`(j "missing")`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if s != nil {
		t.Error("expected nil sketch")
	}
	if len(evalErrs) == 0 || !strings.Contains(evalErrs[0].Message, "missing") {
		t.Errorf("eval errors = %v", evalErrs)
	}
}

func TestDuplicateJointName(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`(joint 1 1 :name "a") (joint 2 2 :name "a")`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for a duplicate joint name")
	}
}

func TestCircle(t *testing.T) {
	s := mustEval(t, NewEngine(), `(circle (pt 10 10) (pt 15 10) :name "c")`)
	sh, ok := s.Shape("c")
	if !ok || !sh.IsCircle() {
		t.Fatalf("circle = %+v", sh)
	}
	if p := position(t, s, sh.Center()); p != geom.Pt(10, 10) {
		t.Errorf("center = %v", p)
	}
}

func TestRectBuiltins(t *testing.T) {
	s := mustEval(t, NewEngine(), `(def sides (rect (pt 10 10) (pt 50 30)))`)
	if s.ShapeCount() != 4 {
		t.Errorf("ShapeCount = %d, want 4", s.ShapeCount())
	}
	if s.ConstraintCount() != 4 {
		t.Errorf("ConstraintCount = %d, want 4", s.ConstraintCount())
	}

	s = mustEval(t, NewEngine(), `(rect (pt 10 10) (pt 14 13) :center)`)
	if s.ShapeCount() != 4 {
		t.Errorf("centered ShapeCount = %d, want 4", s.ShapeCount())
	}
	// Center joint, origin and four corners; the size marker is dropped.
	if s.JointCount() != 6 {
		t.Errorf("centered JointCount = %d, want 6", s.JointCount())
	}

	s = mustEval(t, NewEngine(), `(rect3 (pt 10 10) (pt 30 10) (pt 25 20))`)
	if s.ShapeCount() != 4 {
		t.Errorf("rect3 ShapeCount = %d, want 4", s.ShapeCount())
	}
}

func TestRectSidesAreUsable(t *testing.T) {
	source := `
(def sides (rect (pt 10 10) (pt 50 30)))
(distance (first sides) 60)
(solve 200)
`
	s := mustEval(t, NewEngine(), source)
	first := s.Shapes()[0]
	a, b, _ := s.Endpoints(first.ID)
	if d := geom.Dist(a, b); math.Abs(d-60) > 1e-3 {
		t.Errorf("side length = %v, want 60", d)
	}
}

// ---------------------------------------------------------------------------
// Constraint builtins
// ---------------------------------------------------------------------------

func TestConstraintBuiltins(t *testing.T) {
	source := `
(def a (joint 10 10 :name "a"))
(def b (joint 40 12 :name "b"))
(def c (joint 40 40 :name "c"))
(def l1 (line a b))
(def l2 (line b c))
(horizontal a b)
(vertical l2)
(distance a b 25 :offset 12)
(perpendicular l1 l2)
(point-on-line (joint 20 11) l1)
(collinear a b (joint 70 14))
`
	s := mustEval(t, NewEngine(), source)

	var kinds []string
	for _, c := range s.Constraints() {
		kinds = append(kinds, c.Kind().String())
	}
	want := []string{"horizontal", "vertical", "distance", "perpendicular", "pointOnLine", "collinear"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
	d := s.Constraints()[2].(sketch.Distance)
	if d.Value != 25 || d.Offset != 12 || d.IsRadius {
		t.Errorf("distance = %+v", d)
	}
}

func TestConstraintRejectionIsNotAnError(t *testing.T) {
	source := `
(def a (joint 10 10))
(def b (joint 40 12))
(horizontal a b)
(def again (horizontal b a))
(coincident a a)
`
	s := mustEval(t, NewEngine(), source)
	if s.ConstraintCount() != 1 {
		t.Errorf("ConstraintCount = %d, want 1", s.ConstraintCount())
	}
}

func TestTangentAndRadius(t *testing.T) {
	source := `
(def l (line (pt 0 20) (pt 50 20) :name "l"))
(def c (circle (pt 25 5) (pt 35 5) :name "c"))
(radius c 10)
(tangent c l)
(tangent l c)
(solve 200)
`
	s := mustEval(t, NewEngine(), source)
	// (tangent c l) has its roles swapped and is rejected.
	if s.ConstraintCount() != 2 {
		t.Fatalf("ConstraintCount = %d, want 2", s.ConstraintCount())
	}
	if d := s.Constraints()[0].(sketch.Distance); !d.IsRadius || d.Value != 10 {
		t.Errorf("radius = %+v", d)
	}

	sh, _ := s.Shape("c")
	center := position(t, s, sh.Center())
	a, b, _ := s.Endpoints("l")
	gap := geom.Dist(center, geom.ProjectOnLine(center, a, b))
	if math.Abs(gap-10) > 0.05 {
		t.Errorf("center to line = %v, want 10", gap)
	}
}

func TestMergeBuiltin(t *testing.T) {
	source := `
(def a (joint 10 10 :name "a"))
(def b (joint 11 10 :name "b"))
(line (pt 0 50) b)
(merge b a)
`
	s := mustEval(t, NewEngine(), source)
	if s.HasJoint("b") {
		t.Error("merged joint kept")
	}
	if !s.Shapes()[0].Uses("a") {
		t.Error("line not rewired to a")
	}
}

func TestDeleteBuiltin(t *testing.T) {
	source := `
(def l (line (pt 0 50) (pt 10 50)))
(delete l)
`
	s := mustEval(t, NewEngine(), source)
	if s.ShapeCount() != 0 {
		t.Errorf("ShapeCount = %d, want 0", s.ShapeCount())
	}
}

func TestSolveBuiltin(t *testing.T) {
	source := `
(def a (joint 10 10 :fixed))
(def b (joint 30 25))
(distance a b 50)
(solve 100)
`
	s := mustEval(t, NewEngine(), source)
	joints := s.Joints()
	a, b := joints[1].Position, joints[2].Position
	if a != geom.Pt(10, 10) {
		t.Errorf("fixed joint moved to %v", a)
	}
	if d := geom.Dist(a, b); math.Abs(d-50) > 1e-6 {
		t.Errorf("distance = %v, want 50", d)
	}
}

func TestBuiltinArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"pt arity", `(pt 1)`, "pt"},
		{"pt type", `(pt "a" 1)`, "expected number"},
		{"line arity", `(line (pt 0 0))`, "line"},
		{"parallel needs shapes", `(parallel (pt 0 0) (pt 1 1))`, "expected line or circle"},
		{"radius on line", `(radius (line (pt 1 1) (pt 2 2)) 4)`, "not a circle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("fatal error: %v", err)
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected eval error")
			}
			if !strings.Contains(evalErrs[0].Message, tt.want) {
				t.Errorf("message = %q, want containing %q", evalErrs[0].Message, tt.want)
			}
		})
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	source := `
(def w 40)
(def h (* w 0.5))
(line (pt 0 h) (pt w h))
`
	s := mustEval(t, NewEngine(), source)
	a, b, _ := s.Endpoints(s.Shapes()[0].ID)
	if a != geom.Pt(0, 20) || b != geom.Pt(40, 20) {
		t.Errorf("endpoints = %v %v", a, b)
	}
}

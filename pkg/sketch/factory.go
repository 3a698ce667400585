package sketch

import "log/slog"

// DefaultDistanceOffset is the label offset given to distance constraints
// created without one.
const DefaultDistanceOffset = 30

// Params carries the references and values used to build a constraint.
// Which fields are read depends on the kind:
//
//	coincident, horizontal, vertical  Joints (2)
//	distance                          Joints (2), Value, Offset, IsRadius
//	parallel, perpendicular           Shapes (2), or legacy Joints (4)
//	pointOnLine                       Joint, Shape
//	collinear                         Joints (3 or more)
//	tangent                           Line, Circle
//
// Preview marks transient data shown while drawing; it is never committed.
type Params struct {
	Joints   []JointID
	Shapes   []ShapeID
	Joint    JointID
	Shape    ShapeID
	Line     ShapeID
	Circle   ShapeID
	Value    float64
	Offset   float64 // zero selects DefaultDistanceOffset
	IsRadius bool
	Preview  bool
}

// Create validates params for kind and builds the constraint. It returns
// false when too few references are given or a coincident constraint
// would bind a joint to itself. Create does not consult any sketch; use
// (*Sketch).AddConstraint to also check that the references resolve.
func Create(kind Kind, p Params) (Constraint, bool) {
	switch kind {
	case KindCoincident:
		if len(p.Joints) < 2 || p.Joints[0] == p.Joints[1] {
			return nil, false
		}
		return Coincident{A: p.Joints[0], B: p.Joints[1]}, true
	case KindHorizontal:
		if len(p.Joints) < 2 {
			return nil, false
		}
		return Horizontal{A: p.Joints[0], B: p.Joints[1]}, true
	case KindVertical:
		if len(p.Joints) < 2 {
			return nil, false
		}
		return Vertical{A: p.Joints[0], B: p.Joints[1]}, true
	case KindDistance:
		if len(p.Joints) < 2 {
			return nil, false
		}
		off := p.Offset
		if off == 0 {
			off = DefaultDistanceOffset
		}
		return Distance{A: p.Joints[0], B: p.Joints[1], Value: p.Value, Offset: off, IsRadius: p.IsRadius}, true
	case KindParallel:
		if len(p.Shapes) < 2 {
			return nil, false
		}
		return Parallel{First: p.Shapes[0], Second: p.Shapes[1]}, true
	case KindPerpendicular:
		if len(p.Shapes) < 2 {
			return nil, false
		}
		return Perpendicular{First: p.Shapes[0], Second: p.Shapes[1]}, true
	case KindPointOnLine:
		if p.Joint == "" || p.Shape == "" {
			return nil, false
		}
		return PointOnLine{Joint: p.Joint, Line: p.Shape}, true
	case KindCollinear:
		if len(p.Joints) < 3 {
			return nil, false
		}
		return Collinear{Joints: append([]JointID(nil), p.Joints...)}, true
	case KindTangent:
		if p.Line == "" || p.Circle == "" {
			return nil, false
		}
		return Tangent{Line: p.Line, Circle: p.Circle}, true
	}
	return nil, false
}

// IsDuplicate reports whether existing already holds a constraint of kind
// equivalent to the one params would build. Two-reference kinds compare
// as unordered pairs, collinear compares joint sets, and pointOnLine and
// tangent compare in role order. Distance duplicates ignore the value.
func IsDuplicate(existing []Constraint, kind Kind, p Params) bool {
	for _, c := range existing {
		if c == nil || c.Kind() != kind {
			continue
		}
		switch c := c.(type) {
		case Coincident:
			if samePair(c.A, c.B, p.Joints) {
				return true
			}
		case Horizontal:
			if samePair(c.A, c.B, p.Joints) {
				return true
			}
		case Vertical:
			if samePair(c.A, c.B, p.Joints) {
				return true
			}
		case Distance:
			if samePair(c.A, c.B, p.Joints) {
				return true
			}
		case Parallel:
			if samePair(c.First, c.Second, p.Shapes) {
				return true
			}
		case Perpendicular:
			if samePair(c.First, c.Second, p.Shapes) {
				return true
			}
		case PointOnLine:
			if c.Joint == p.Joint && c.Line == p.Shape {
				return true
			}
		case Collinear:
			if sameSet(c.Joints, p.Joints) {
				return true
			}
		case Tangent:
			if c.Line == p.Line && c.Circle == p.Circle {
				return true
			}
		}
	}
	return false
}

func samePair[T comparable](a, b T, ids []T) bool {
	if len(ids) < 2 {
		return false
	}
	x, y := ids[0], ids[1]
	return (a == x && b == y) || (a == y && b == x)
}

func sameSet(a, b []JointID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[JointID]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}

// AddConstraint is the single path through which constraints enter the
// sketch. It refuses previews, collapses the legacy four-joint encoding
// of parallel and perpendicular onto line shapes, checks that every
// reference resolves to a joint or a shape of the right kind, rejects
// duplicates, and appends. It reports whether a constraint was added.
func (s *Sketch) AddConstraint(kind Kind, p Params) bool {
	log := Logger().With("kind", kind.String())
	if p.Preview {
		log.Debug("ignoring preview constraint")
		return false
	}
	if kind == KindParallel || kind == KindPerpendicular {
		p = s.collapseLegacy(p)
	}
	if IsDuplicate(s.constraints, kind, p) {
		log.Debug("duplicate constraint rejected")
		return false
	}
	c, ok := Create(kind, p)
	if !ok {
		log.Debug("invalid constraint rejected")
		return false
	}
	if err := s.checkRoles(c); err != nil {
		log.Debug("unresolved constraint rejected", slog.String("err", err.Error()))
		return false
	}
	log.Debug("adding constraint")
	s.constraints = append(s.constraints, c)
	return true
}

// collapseLegacy converts parallel/perpendicular params given as four
// joints (two per line) into the shape form, by finding the lines that
// join each pair in either direction. Params already carrying shapes are
// returned unchanged.
func (s *Sketch) collapseLegacy(p Params) Params {
	if len(p.Shapes) >= 2 || len(p.Joints) < 4 {
		return p
	}
	first, ok1 := s.lineBetween(p.Joints[0], p.Joints[1])
	second, ok2 := s.lineBetween(p.Joints[2], p.Joints[3])
	if !ok1 || !ok2 {
		return p
	}
	p.Shapes = []ShapeID{first, second}
	p.Joints = nil
	return p
}

// lineBetween finds a line whose endpoints are a and b in either order.
func (s *Sketch) lineBetween(a, b JointID) (ShapeID, bool) {
	for _, sh := range s.shapes {
		if sh.IsLine() && samePair(sh.Joints[0], sh.Joints[1], []JointID{a, b}) {
			return sh.ID, true
		}
	}
	return "", false
}

// checkRoles verifies that every joint a constraint names exists and that
// every shape it names exists with the kind its role requires.
func (s *Sketch) checkRoles(c Constraint) error {
	joints, _ := References(c)
	for _, id := range joints {
		if !s.HasJoint(id) {
			return errorf(ErrUnknownJoint, "joint %q", id)
		}
	}
	switch c := c.(type) {
	case Parallel:
		return s.requireShapes(ShapeLine, c.First, c.Second)
	case Perpendicular:
		return s.requireShapes(ShapeLine, c.First, c.Second)
	case PointOnLine:
		return s.requireShapes(ShapeLine, c.Line)
	case Tangent:
		if err := s.requireShapes(ShapeLine, c.Line); err != nil {
			return err
		}
		return s.requireShapes(ShapeCircle, c.Circle)
	}
	return nil
}

func (s *Sketch) requireShapes(kind ShapeKind, ids ...ShapeID) error {
	for _, id := range ids {
		sh, ok := s.Shape(id)
		if !ok {
			return errorf(ErrUnknownShape, "shape %q", id)
		}
		if sh.Kind != kind {
			return errorf(ErrInvalidShape, "shape %q is a %s, want %s", id, sh.Kind, kind)
		}
	}
	return nil
}

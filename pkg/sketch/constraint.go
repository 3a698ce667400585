package sketch

// Kind enumerates the constraint variants.
type Kind int

const (
	KindCoincident Kind = iota
	KindHorizontal
	KindVertical
	KindDistance
	KindParallel
	KindPerpendicular
	KindPointOnLine
	KindCollinear
	KindTangent
)

func (k Kind) String() string {
	switch k {
	case KindCoincident:
		return "coincident"
	case KindHorizontal:
		return "horizontal"
	case KindVertical:
		return "vertical"
	case KindDistance:
		return "distance"
	case KindParallel:
		return "parallel"
	case KindPerpendicular:
		return "perpendicular"
	case KindPointOnLine:
		return "pointOnLine"
	case KindCollinear:
		return "collinear"
	case KindTangent:
		return "tangent"
	default:
		return "unknown"
	}
}

// ParseKind converts a constraint tag into a Kind.
func ParseKind(s string) (Kind, bool) {
	for k := KindCoincident; k <= KindTangent; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Constraint is a closed set of geometric rules. Only types in this package
// implement it; use Create or (*Sketch).AddConstraint to build one.
type Constraint interface {
	Kind() Kind
	constraint() // marker method restricting implementations to this package
}

// Coincident pins two joints to the same position.
type Coincident struct {
	A, B JointID
}

// Horizontal equalizes the y coordinate of two joints.
type Horizontal struct {
	A, B JointID
}

// Vertical equalizes the x coordinate of two joints.
type Vertical struct {
	A, B JointID
}

// Distance keeps two joints Value apart. Offset positions the dimension
// label; IsRadius marks a circle radius dimension.
type Distance struct {
	A, B     JointID
	Value    float64
	Offset   float64
	IsRadius bool
}

// Parallel aligns the Second line with the First.
type Parallel struct {
	First, Second ShapeID
}

// Perpendicular keeps the Second line at a right angle to the First.
type Perpendicular struct {
	First, Second ShapeID
}

// PointOnLine keeps a joint on a line segment.
type PointOnLine struct {
	Joint JointID
	Line  ShapeID
}

// Collinear keeps Joints[2:] on the infinite line through Joints[0] and
// Joints[1].
type Collinear struct {
	Joints []JointID
}

// Tangent keeps a line tangent to a circle.
type Tangent struct {
	Line   ShapeID
	Circle ShapeID
}

func (Coincident) Kind() Kind    { return KindCoincident }
func (Horizontal) Kind() Kind    { return KindHorizontal }
func (Vertical) Kind() Kind      { return KindVertical }
func (Distance) Kind() Kind      { return KindDistance }
func (Parallel) Kind() Kind      { return KindParallel }
func (Perpendicular) Kind() Kind { return KindPerpendicular }
func (PointOnLine) Kind() Kind   { return KindPointOnLine }
func (Collinear) Kind() Kind     { return KindCollinear }
func (Tangent) Kind() Kind       { return KindTangent }

func (Coincident) constraint()    {}
func (Horizontal) constraint()    {}
func (Vertical) constraint()      {}
func (Distance) constraint()      {}
func (Parallel) constraint()      {}
func (Perpendicular) constraint() {}
func (PointOnLine) constraint()   {}
func (Collinear) constraint()     {}
func (Tangent) constraint()       {}

// References returns the joints and shapes a constraint names directly.
func References(c Constraint) (joints []JointID, shapes []ShapeID) {
	switch c := c.(type) {
	case Coincident:
		return []JointID{c.A, c.B}, nil
	case Horizontal:
		return []JointID{c.A, c.B}, nil
	case Vertical:
		return []JointID{c.A, c.B}, nil
	case Distance:
		return []JointID{c.A, c.B}, nil
	case Parallel:
		return nil, []ShapeID{c.First, c.Second}
	case Perpendicular:
		return nil, []ShapeID{c.First, c.Second}
	case PointOnLine:
		return []JointID{c.Joint}, []ShapeID{c.Line}
	case Collinear:
		return append([]JointID(nil), c.Joints...), nil
	case Tangent:
		return nil, []ShapeID{c.Line, c.Circle}
	}
	return nil, nil
}

// Equal reports structural equality between two constraints. Symmetric
// pair constraints compare their references as unordered pairs; collinear
// compares joint sets. PointOnLine and Tangent keep role order. Distance
// constraints must also agree on value and radius flag; the label offset
// is ignored.
func Equal(a, b Constraint) bool {
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	if da, ok := a.(Distance); ok {
		db := b.(Distance)
		if da.Value != db.Value || da.IsRadius != db.IsRadius {
			return false
		}
	}
	return IsDuplicate([]Constraint{a}, b.Kind(), paramsOf(b))
}

// renameJoint returns c with every reference to from replaced by to.
func renameJoint(c Constraint, from, to JointID) Constraint {
	swap := func(id JointID) JointID {
		if id == from {
			return to
		}
		return id
	}
	switch c := c.(type) {
	case Coincident:
		return Coincident{A: swap(c.A), B: swap(c.B)}
	case Horizontal:
		return Horizontal{A: swap(c.A), B: swap(c.B)}
	case Vertical:
		return Vertical{A: swap(c.A), B: swap(c.B)}
	case Distance:
		c.A, c.B = swap(c.A), swap(c.B)
		return c
	case PointOnLine:
		c.Joint = swap(c.Joint)
		return c
	case Collinear:
		joints := make([]JointID, len(c.Joints))
		for i, id := range c.Joints {
			joints[i] = swap(id)
		}
		return Collinear{Joints: joints}
	}
	return c
}

func hasRepeat(ids []JointID) bool {
	seen := make(map[JointID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

// copyConstraint returns a constraint that shares no memory with c.
func copyConstraint(c Constraint) Constraint {
	if col, ok := c.(Collinear); ok {
		return Collinear{Joints: append([]JointID(nil), col.Joints...)}
	}
	return c
}

// paramsOf converts a constraint back into factory parameters.
func paramsOf(c Constraint) Params {
	switch c := c.(type) {
	case Coincident:
		return Params{Joints: []JointID{c.A, c.B}}
	case Horizontal:
		return Params{Joints: []JointID{c.A, c.B}}
	case Vertical:
		return Params{Joints: []JointID{c.A, c.B}}
	case Distance:
		return Params{Joints: []JointID{c.A, c.B}, Value: c.Value, Offset: c.Offset, IsRadius: c.IsRadius}
	case Parallel:
		return Params{Shapes: []ShapeID{c.First, c.Second}}
	case Perpendicular:
		return Params{Shapes: []ShapeID{c.First, c.Second}}
	case PointOnLine:
		return Params{Joint: c.Joint, Shape: c.Line}
	case Collinear:
		return Params{Joints: append([]JointID(nil), c.Joints...)}
	case Tangent:
		return Params{Line: c.Line, Circle: c.Circle}
	}
	return Params{}
}

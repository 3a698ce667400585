package sketch

import (
	"fmt"

	"github.com/chazu/sketch/pkg/geom"
)

// Sketch owns the joints, shapes and constraints of one drawing. It is not
// safe for concurrent use: all mutation and solving must happen on the
// goroutine that owns the sketch.
type Sketch struct {
	joints      map[JointID]*Joint
	jointOrder  []JointID // insertion order, for deterministic iteration
	shapes      []Shape   // creation order
	constraints []Constraint
}

// New returns a sketch containing only the fixed origin joint.
func New() *Sketch {
	s := &Sketch{}
	s.Reset()
	return s
}

// Reset clears every collection and reinserts the fixed origin at (0,0).
func (s *Sketch) Reset() {
	s.joints = map[JointID]*Joint{
		OriginID: {ID: OriginID, Position: geom.Pt(0, 0), Fixed: true},
	}
	s.jointOrder = []JointID{OriginID}
	s.shapes = nil
	s.constraints = nil
}

// ---------------------------------------------------------------------------
// Joints
// ---------------------------------------------------------------------------

// AddJoint inserts a joint. The id must be non-empty and unused.
func (s *Sketch) AddJoint(j Joint) error {
	if j.ID == "" {
		return fmt.Errorf("add joint: %w", ErrEmptyID)
	}
	if _, exists := s.joints[j.ID]; exists {
		return fmt.Errorf("add joint %q: %w", j.ID, ErrDuplicateID)
	}
	jj := j
	s.joints[j.ID] = &jj
	s.jointOrder = append(s.jointOrder, j.ID)
	return nil
}

// NewJoint creates a free joint at p with an id from gen.
func (s *Sketch) NewJoint(gen IDGenerator, p geom.Point) JointID {
	id := JointID(gen.NextID())
	for s.joints[id] != nil {
		id = JointID(gen.NextID())
	}
	s.joints[id] = &Joint{ID: id, Position: p}
	s.jointOrder = append(s.jointOrder, id)
	return id
}

// Joint returns the joint with the given id, or nil. The returned pointer
// aliases the sketch; only the solver and drag operations write through it.
func (s *Sketch) Joint(id JointID) *Joint {
	return s.joints[id]
}

// Position returns the position of a joint.
func (s *Sketch) Position(id JointID) (geom.Point, bool) {
	j := s.joints[id]
	if j == nil {
		return geom.Point{}, false
	}
	return j.Position, true
}

// HasJoint reports whether the joint exists.
func (s *Sketch) HasJoint(id JointID) bool {
	_, ok := s.joints[id]
	return ok
}

// JointIDs returns joint ids in insertion order.
func (s *Sketch) JointIDs() []JointID {
	return append([]JointID(nil), s.jointOrder...)
}

// Joints returns a snapshot of all joints in insertion order.
func (s *Sketch) Joints() []Joint {
	out := make([]Joint, 0, len(s.jointOrder))
	for _, id := range s.jointOrder {
		out = append(out, *s.joints[id])
	}
	return out
}

// JointCount returns the number of joints, origin included.
func (s *Sketch) JointCount() int {
	return len(s.jointOrder)
}

// MoveJoints places every joint in initial at its initial position plus
// delta. Fixed and missing joints are skipped. Used for joint and cluster
// drags.
func (s *Sketch) MoveJoints(initial map[JointID]geom.Point, delta geom.Point) {
	for id, p := range initial {
		j := s.joints[id]
		if j == nil || j.Fixed {
			continue
		}
		j.Position = p.Add(delta)
	}
}

// MergeJoints fuses fromID into toID: shape and constraint references to
// fromID are rewritten to toID and fromID is removed. Shapes left with
// toID at both ends are deleted with their constraints, and constraints
// that end up naming one joint twice or duplicating an earlier one are
// dropped. It is a no-op if either joint is missing, if they are equal,
// or if fromID is fixed.
func (s *Sketch) MergeJoints(fromID, toID JointID) {
	from, okFrom := s.joints[fromID]
	_, okTo := s.joints[toID]
	if !okFrom || !okTo || fromID == toID || from.Fixed {
		return
	}
	collapsed := make(map[ShapeID]bool)
	for i := range s.shapes {
		sh := &s.shapes[i]
		for k := range sh.Joints {
			if sh.Joints[k] == fromID {
				sh.Joints[k] = toID
			}
		}
		if sh.Joints[0] == sh.Joints[1] {
			collapsed[sh.ID] = true
		}
	}
	s.deleteShapes(collapsed)

	kept := s.constraints[:0]
	for _, c := range s.constraints {
		c = renameJoint(c, fromID, toID)
		joints, _ := References(c)
		if hasRepeat(joints) {
			continue
		}
		if IsDuplicate(kept, c.Kind(), paramsOf(c)) {
			continue
		}
		kept = append(kept, c)
	}
	s.constraints = kept
	s.removeJoint(fromID)
}

func (s *Sketch) removeJoint(id JointID) {
	delete(s.joints, id)
	for i, jid := range s.jointOrder {
		if jid == id {
			s.jointOrder = append(s.jointOrder[:i], s.jointOrder[i+1:]...)
			break
		}
	}
}

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

// AddShape appends a shape. Both joints must exist and be distinct.
func (s *Sketch) AddShape(sh Shape) error {
	if sh.ID == "" {
		return fmt.Errorf("add shape: %w", ErrEmptyID)
	}
	if sh.Kind != ShapeLine && sh.Kind != ShapeCircle {
		return fmt.Errorf("add shape %q: kind %d: %w", sh.ID, int(sh.Kind), ErrInvalidShape)
	}
	if _, ok := s.Shape(sh.ID); ok {
		return fmt.Errorf("add shape %q: %w", sh.ID, ErrDuplicateID)
	}
	if sh.Joints[0] == sh.Joints[1] {
		return fmt.Errorf("add shape %q: both ends are joint %q: %w", sh.ID, sh.Joints[0], ErrInvalidShape)
	}
	for _, jid := range sh.Joints {
		if !s.HasJoint(jid) {
			return fmt.Errorf("add shape %q: joint %q: %w", sh.ID, jid, ErrUnknownJoint)
		}
	}
	s.shapes = append(s.shapes, sh)
	return nil
}

// NewLine creates a line between two existing joints.
func (s *Sketch) NewLine(gen IDGenerator, a, b JointID, group string) (ShapeID, error) {
	return s.newShape(gen, ShapeLine, a, b, group)
}

// NewCircle creates a circle from a center joint and a circumference joint.
func (s *Sketch) NewCircle(gen IDGenerator, center, edge JointID) (ShapeID, error) {
	return s.newShape(gen, ShapeCircle, center, edge, "")
}

func (s *Sketch) newShape(gen IDGenerator, kind ShapeKind, a, b JointID, group string) (ShapeID, error) {
	id := ShapeID(gen.NextID())
	for _, exists := s.Shape(id); exists; _, exists = s.Shape(id) {
		id = ShapeID(gen.NextID())
	}
	err := s.AddShape(Shape{ID: id, Kind: kind, Joints: [2]JointID{a, b}, GroupID: group})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Shape returns the shape with the given id.
func (s *Sketch) Shape(id ShapeID) (Shape, bool) {
	for _, sh := range s.shapes {
		if sh.ID == id {
			return sh, true
		}
	}
	return Shape{}, false
}

// Shapes returns a snapshot of all shapes in creation order.
func (s *Sketch) Shapes() []Shape {
	return append([]Shape(nil), s.shapes...)
}

// ShapeCount returns the number of shapes.
func (s *Sketch) ShapeCount() int {
	return len(s.shapes)
}

// Endpoints resolves the two joint positions of a shape. It returns false
// when the shape or one of its joints is missing.
func (s *Sketch) Endpoints(id ShapeID) (a, b geom.Point, ok bool) {
	sh, found := s.Shape(id)
	if !found {
		return a, b, false
	}
	ja, jb := s.joints[sh.Joints[0]], s.joints[sh.Joints[1]]
	if ja == nil || jb == nil {
		return a, b, false
	}
	return ja.Position, jb.Position, true
}

// ---------------------------------------------------------------------------
// Constraints
// ---------------------------------------------------------------------------

// Constraints returns a snapshot of the constraint list in insertion order.
func (s *Sketch) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	for i, c := range s.constraints {
		out[i] = copyConstraint(c)
	}
	return out
}

// ConstraintCount returns the number of constraints.
func (s *Sketch) ConstraintCount() int {
	return len(s.constraints)
}

// ---------------------------------------------------------------------------
// Copying
// ---------------------------------------------------------------------------

// Clone returns a deep copy of the sketch. History collaborators snapshot
// sketches this way before mutating operations.
func (s *Sketch) Clone() *Sketch {
	c := &Sketch{
		joints:     make(map[JointID]*Joint, len(s.joints)),
		jointOrder: append([]JointID(nil), s.jointOrder...),
		shapes:     append([]Shape(nil), s.shapes...),
	}
	for id, j := range s.joints {
		jj := *j
		c.joints[id] = &jj
	}
	c.constraints = s.Constraints()
	return c
}

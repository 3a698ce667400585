package sketch

import (
	"math"

	"github.com/chazu/sketch/pkg/geom"
)

// Rect is the result of a rectangle builder. Corners run around the
// rectangle; Sides[i] joins Corners[i] and Corners[(i+1)%4]. All sides
// share Group.
type Rect struct {
	Corners [4]JointID
	Sides   [4]ShapeID
	Group   string
}

// RectFromCorners builds an axis-aligned rectangle from two opposite
// corners j1 and j3, adding the two missing corners, four sides, and
// horizontal/vertical constraints that keep it axis-aligned.
func (s *Sketch) RectFromCorners(gen IDGenerator, j1, j3 JointID) (Rect, error) {
	p1, ok1 := s.Position(j1)
	p3, ok3 := s.Position(j3)
	if !ok1 || !ok3 {
		return Rect{}, errorf(ErrUnknownJoint, "rect from corners %q %q", j1, j3)
	}
	j2 := s.NewJoint(gen, geom.Pt(p3.X, p1.Y))
	j4 := s.NewJoint(gen, geom.Pt(p1.X, p3.Y))
	r, err := s.rectSides(gen, [4]JointID{j1, j2, j3, j4})
	if err != nil {
		return Rect{}, err
	}
	s.addAxisConstraints(r)
	return r, nil
}

// RectFromCenter builds an axis-aligned rectangle centered on center with
// corner as one of its corners. The corner joint only marks the size: it
// is replaced by a new joint and deleted when nothing else uses it.
func (s *Sketch) RectFromCenter(gen IDGenerator, center, corner JointID) (Rect, error) {
	c, ok1 := s.Position(center)
	k, ok2 := s.Position(corner)
	if !ok1 || !ok2 {
		return Rect{}, errorf(ErrUnknownJoint, "rect from center %q %q", center, corner)
	}
	d := k.Sub(c)
	var corners [4]JointID
	corners[0] = s.NewJoint(gen, geom.Pt(c.X-d.X, c.Y-d.Y))
	corners[1] = s.NewJoint(gen, geom.Pt(c.X+d.X, c.Y-d.Y))
	corners[2] = s.NewJoint(gen, geom.Pt(c.X+d.X, c.Y+d.Y))
	corners[3] = s.NewJoint(gen, geom.Pt(c.X-d.X, c.Y+d.Y))
	if !s.inUse(corner) {
		s.DeleteJoint(corner)
	}
	r, err := s.rectSides(gen, corners)
	if err != nil {
		return Rect{}, err
	}
	s.addAxisConstraints(r)
	return r, nil
}

// RectFrom3Points builds a rectangle whose first side runs from j1 to j2
// and whose height is the distance of j3 from that side. j3 is moved onto
// the corner opposite j1. On error the sketch is unchanged.
func (s *Sketch) RectFrom3Points(gen IDGenerator, j1, j2, j3 JointID) (Rect, error) {
	if j1 == j2 || j2 == j3 || j1 == j3 {
		return Rect{}, errorf(ErrInvalidShape, "rect from points %q %q %q: joints must be distinct", j1, j2, j3)
	}
	p1, ok1 := s.Position(j1)
	p2, ok2 := s.Position(j2)
	p3, ok3 := s.Position(j3)
	if !ok1 || !ok2 || !ok3 {
		return Rect{}, errorf(ErrUnknownJoint, "rect from points %q %q %q", j1, j2, j3)
	}
	d := p2.Sub(p1)
	l := math.Hypot(d.X, d.Y)
	if l < 1e-3 {
		return Rect{}, errorf(ErrInvalidShape, "rect from points: first side too short")
	}
	n := geom.Pt(-d.Y/l, d.X/l)
	h := p3.Sub(p1).Dot(n)
	j4 := s.NewJoint(gen, p1.Add(n.MulScalar(h)))
	if j := s.joints[j3]; !j.Fixed {
		j.Position = p2.Add(n.MulScalar(h))
	}
	r, err := s.rectSides(gen, [4]JointID{j1, j2, j3, j4})
	if err != nil {
		s.joints[j3].Position = p3
		s.removeJoint(j4)
		return Rect{}, err
	}
	return r, nil
}

func (s *Sketch) rectSides(gen IDGenerator, corners [4]JointID) (Rect, error) {
	r := Rect{Corners: corners, Group: "rect_" + gen.NextID()}
	for i := range corners {
		id, err := s.NewLine(gen, corners[i], corners[(i+1)%4], r.Group)
		if err != nil {
			s.DeleteGroup(r.Group)
			return Rect{}, err
		}
		r.Sides[i] = id
	}
	return r, nil
}

func (s *Sketch) addAxisConstraints(r Rect) {
	c := r.Corners
	s.AddConstraint(KindHorizontal, Params{Joints: []JointID{c[0], c[1]}})
	s.AddConstraint(KindVertical, Params{Joints: []JointID{c[1], c[2]}})
	s.AddConstraint(KindHorizontal, Params{Joints: []JointID{c[2], c[3]}})
	s.AddConstraint(KindVertical, Params{Joints: []JointID{c[3], c[0]}})
}

// inUse reports whether any shape or constraint references the joint.
func (s *Sketch) inUse(id JointID) bool {
	for _, sh := range s.shapes {
		if sh.Uses(id) {
			return true
		}
	}
	for _, c := range s.constraints {
		joints, _ := References(c)
		for _, jid := range joints {
			if jid == id {
				return true
			}
		}
	}
	return false
}

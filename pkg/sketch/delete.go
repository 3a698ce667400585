package sketch

// DeleteShape removes a shape and every constraint that references it.
// Joints are kept. It reports whether the shape existed.
func (s *Sketch) DeleteShape(id ShapeID) bool {
	return s.deleteShapes(map[ShapeID]bool{id: true}) > 0
}

// DeleteGroup removes every shape carrying group id and the constraints
// that reference them. It returns the number of shapes removed.
func (s *Sketch) DeleteGroup(group string) int {
	if group == "" {
		return 0
	}
	ids := make(map[ShapeID]bool)
	for _, sh := range s.shapes {
		if sh.GroupID == group {
			ids[sh.ID] = true
		}
	}
	return s.deleteShapes(ids)
}

// DeleteJoint removes a joint, every shape built on it, and every
// constraint that references the joint or one of those shapes. Fixed
// joints cannot be deleted.
func (s *Sketch) DeleteJoint(id JointID) bool {
	j := s.joints[id]
	if j == nil || j.Fixed {
		return false
	}
	shapes := make(map[ShapeID]bool)
	for _, sh := range s.shapes {
		if sh.Uses(id) {
			shapes[sh.ID] = true
		}
	}
	s.deleteShapes(shapes)
	s.constraints = filterConstraints(s.constraints, func(c Constraint) bool {
		joints, _ := References(c)
		for _, jid := range joints {
			if jid == id {
				return false
			}
		}
		return true
	})
	s.removeJoint(id)
	return true
}

// RemoveConstraint removes the first constraint equal to c.
func (s *Sketch) RemoveConstraint(c Constraint) bool {
	for i, existing := range s.constraints {
		if Equal(existing, c) {
			s.constraints = append(s.constraints[:i], s.constraints[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Sketch) deleteShapes(ids map[ShapeID]bool) int {
	if len(ids) == 0 {
		return 0
	}
	kept := s.shapes[:0]
	removed := 0
	for _, sh := range s.shapes {
		if ids[sh.ID] {
			removed++
			continue
		}
		kept = append(kept, sh)
	}
	s.shapes = kept
	if removed == 0 {
		return 0
	}
	s.constraints = filterConstraints(s.constraints, func(c Constraint) bool {
		_, shapes := References(c)
		for _, sid := range shapes {
			if ids[sid] {
				return false
			}
		}
		return true
	})
	return removed
}

func filterConstraints(cs []Constraint, keep func(Constraint) bool) []Constraint {
	out := cs[:0]
	for _, c := range cs {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// ConstrainedGeometry returns the joints and shapes involved in c. For
// joint-based constraints it also returns every shape touching one of
// those joints, which is what a highlight of the constraint shows.
func ConstrainedGeometry(s *Sketch, c Constraint) (joints []JointID, shapes []ShapeID) {
	joints, shapes = References(c)
	if len(joints) == 0 {
		return joints, shapes
	}
	if _, ok := c.(PointOnLine); ok {
		return joints, shapes
	}
	named := make(map[JointID]bool, len(joints))
	for _, id := range joints {
		named[id] = true
	}
	for _, sh := range s.shapes {
		if named[sh.Joints[0]] || named[sh.Joints[1]] {
			shapes = append(shapes, sh.ID)
		}
	}
	return joints, shapes
}

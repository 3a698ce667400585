package sketch

import "github.com/chazu/sketch/pkg/geom"

// AutoCoincidenceEpsilon is the distance within which a newly created
// joint is bound to an existing one by an implicit coincident constraint.
const AutoCoincidenceEpsilon = 0.01

// FindNearbyJoint returns the first joint, in insertion order, that lies
// strictly closer than eps to p. The exclude joint is never returned.
func (s *Sketch) FindNearbyJoint(p geom.Point, exclude JointID, eps float64) (JointID, bool) {
	for _, id := range s.jointOrder {
		if id == exclude {
			continue
		}
		if geom.Dist(s.joints[id].Position, p) < eps {
			return id, true
		}
	}
	return "", false
}

// AutoCoincide binds joint id to the first other joint within
// AutoCoincidenceEpsilon through a coincident constraint. It returns the
// partner joint when a constraint was added.
func (s *Sketch) AutoCoincide(id JointID) (JointID, bool) {
	j := s.joints[id]
	if j == nil {
		return "", false
	}
	near, ok := s.FindNearbyJoint(j.Position, id, AutoCoincidenceEpsilon)
	if !ok {
		return "", false
	}
	if !s.AddConstraint(KindCoincident, Params{Joints: []JointID{id, near}}) {
		return "", false
	}
	return near, true
}

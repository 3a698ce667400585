package snap

import "github.com/chazu/sketch/pkg/geom"

// Mapper converts between model space and device space. The snap engine
// takes query points in model space but measures distances in device
// space, so tolerances stay constant in pixels whatever the zoom.
type Mapper interface {
	ToModel(device geom.Point) geom.Point
	ToDevice(model geom.Point) geom.Point
}

// IdentityMapper treats model and device space as the same.
type IdentityMapper struct{}

func (IdentityMapper) ToModel(p geom.Point) geom.Point  { return p }
func (IdentityMapper) ToDevice(p geom.Point) geom.Point { return p }

// Tolerances are device-space distances used by the engine.
type Tolerances struct {
	Joint          float64 // joint snap while dragging or selecting
	InferenceJoint float64 // joint snap while drawing with inference
	Line           float64 // line snap; tighter than Joint so joints win
	HitJoint       float64 // default threshold for HitJoint
	HitLine        float64 // default threshold for HitLine
	HitCircle      float64 // default threshold for HitCircle
}

// DefaultTolerances returns the pixel tolerances of a pointer-driven
// editor.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Joint:          50,
		InferenceJoint: 15,
		Line:           20,
		HitJoint:       14,
		HitLine:        8,
		HitCircle:      10,
	}
}

// withDefaults replaces zero or negative fields with their defaults.
func (t Tolerances) withDefaults() Tolerances {
	d := DefaultTolerances()
	pick := func(v, def float64) float64 {
		if v > 0 {
			return v
		}
		return def
	}
	return Tolerances{
		Joint:          pick(t.Joint, d.Joint),
		InferenceJoint: pick(t.InferenceJoint, d.InferenceJoint),
		Line:           pick(t.Line, d.Line),
		HitJoint:       pick(t.HitJoint, d.HitJoint),
		HitLine:        pick(t.HitLine, d.HitLine),
		HitCircle:      pick(t.HitCircle, d.HitCircle),
	}
}

package sketch

import (
	"errors"
	"fmt"

	"github.com/chazu/sketch/pkg/geom"
)

// JointID is the opaque identifier of a joint.
type JointID string

// ShapeID is the opaque identifier of a shape.
type ShapeID string

// OriginID identifies the mandatory fixed joint at (0,0).
const OriginID JointID = "j_origin"

var (
	// ErrDuplicateID is returned when an id is already present in the sketch.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownJoint is returned when a referenced joint does not exist.
	ErrUnknownJoint = errors.New("unknown joint")
	// ErrUnknownShape is returned when a referenced shape does not exist.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrEmptyID is returned when a joint or shape has no id.
	ErrEmptyID = errors.New("empty id")
	// ErrInvalidShape is returned for malformed shapes.
	ErrInvalidShape = errors.New("invalid shape")
)

// Joint is a named 2D point. Fixed joints are never moved by the solver or
// by drag operations.
type Joint struct {
	ID       JointID
	Position geom.Point
	Fixed    bool
}

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

// ShapeKind distinguishes between shape variants.
type ShapeKind int

const (
	ShapeLine   ShapeKind = iota // segment between two joints
	ShapeCircle                  // center joint + radius-defining joint
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeLine:
		return "line"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// ParseShapeKind converts a shape kind name back into a ShapeKind.
func ParseShapeKind(s string) (ShapeKind, bool) {
	switch s {
	case "line":
		return ShapeLine, true
	case "circle":
		return ShapeCircle, true
	}
	return 0, false
}

// MarshalText encodes the kind as its name.
func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ShapeKind) UnmarshalText(b []byte) error {
	v, ok := ParseShapeKind(string(b))
	if !ok {
		return fmt.Errorf("%w: unknown shape type %q", ErrInvalidShape, b)
	}
	*k = v
	return nil
}

// Shape is a line or a circle defined by two joint references. For circles
// Joints[0] is the center and Joints[1] lies on the circumference.
type Shape struct {
	ID      ShapeID    `json:"id"`
	Kind    ShapeKind  `json:"type"`
	Joints  [2]JointID `json:"joints"`
	GroupID string     `json:"groupId,omitempty"` // selection metadata only
}

// IsLine reports whether the shape is a line segment.
func (s Shape) IsLine() bool { return s.Kind == ShapeLine }

// IsCircle reports whether the shape is a circle.
func (s Shape) IsCircle() bool { return s.Kind == ShapeCircle }

// Uses reports whether the shape references the given joint.
func (s Shape) Uses(id JointID) bool {
	return s.Joints[0] == id || s.Joints[1] == id
}

// Center returns the center joint of a circle.
func (s Shape) Center() JointID { return s.Joints[0] }

// RadiusPoint returns the circumference joint of a circle.
func (s Shape) RadiusPoint() JointID { return s.Joints[1] }

// errorf wraps sentinel with a formatted context message.
func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, sentinel)...)
}

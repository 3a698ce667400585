package sketch

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Document is the serialized form of a sketch. Constraints are encoded as
// envelopes tagged by "type" with only the fields that kind uses.
type Document struct {
	Joints      []Joint         `json:"joints"`
	Shapes      []Shape         `json:"shapes"`
	Constraints []ConstraintDoc `json:"constraints"`
}

// ConstraintDoc is the tagged envelope of one constraint.
type ConstraintDoc struct {
	Type     string    `json:"type"`
	Joints   []JointID `json:"joints,omitempty"`
	Shapes   []ShapeID `json:"shapes,omitempty"`
	Joint    JointID   `json:"joint,omitempty"`
	Shape    ShapeID   `json:"shape,omitempty"`
	Line     ShapeID   `json:"line,omitempty"`
	Circle   ShapeID   `json:"circle,omitempty"`
	Value    float64   `json:"value,omitempty"`
	Offset   float64   `json:"offset,omitempty"`
	IsRadius bool      `json:"isRadius,omitempty"`
}

type jointDoc struct {
	ID    JointID `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Fixed bool    `json:"fixed,omitempty"`
}

// MarshalJSON encodes the joint as {"id", "x", "y", "fixed"}.
func (j Joint) MarshalJSON() ([]byte, error) {
	return json.Marshal(jointDoc{ID: j.ID, X: j.Position.X, Y: j.Position.Y, Fixed: j.Fixed})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (j *Joint) UnmarshalJSON(b []byte) error {
	var d jointDoc
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	j.ID = d.ID
	j.Position.X, j.Position.Y = d.X, d.Y
	j.Fixed = d.Fixed
	return nil
}

// EncodeConstraint converts a constraint into its envelope.
func EncodeConstraint(c Constraint) ConstraintDoc {
	p := paramsOf(c)
	d := ConstraintDoc{Type: c.Kind().String(), Joints: p.Joints, Shapes: p.Shapes}
	switch c := c.(type) {
	case Distance:
		d.Value, d.Offset, d.IsRadius = c.Value, c.Offset, c.IsRadius
	case PointOnLine:
		d.Joint, d.Shape = c.Joint, c.Line
	case Tangent:
		d.Line, d.Circle = c.Line, c.Circle
	}
	return d
}

// Params returns the factory parameters the envelope describes.
func (d ConstraintDoc) Params() Params {
	return Params{
		Joints: d.Joints, Shapes: d.Shapes,
		Joint: d.Joint, Shape: d.Shape,
		Line: d.Line, Circle: d.Circle,
		Value: d.Value, Offset: d.Offset, IsRadius: d.IsRadius,
	}
}

// Document returns a snapshot of the sketch in serializable form.
func (s *Sketch) Document() Document {
	doc := Document{
		Joints:      s.Joints(),
		Shapes:      s.Shapes(),
		Constraints: make([]ConstraintDoc, 0, len(s.constraints)),
	}
	if doc.Shapes == nil {
		doc.Shapes = []Shape{}
	}
	for _, c := range s.constraints {
		doc.Constraints = append(doc.Constraints, EncodeConstraint(c))
	}
	return doc
}

// FromDocument builds a sketch from a document. Joints and shapes are
// inserted with the usual checks, and constraints go through
// AddConstraint. Duplicate constraints are dropped with a warning; any
// other rejected entry makes FromDocument fail with every problem joined.
// A document without the origin joint gets the default one.
func FromDocument(doc Document) (*Sketch, error) {
	s := New()
	var errs []error
	for _, j := range doc.Joints {
		if j.ID == OriginID {
			*s.joints[OriginID] = j
			continue
		}
		if err := s.AddJoint(j); err != nil {
			errs = append(errs, err)
		}
	}
	for _, sh := range doc.Shapes {
		if err := s.AddShape(sh); err != nil {
			errs = append(errs, err)
		}
	}
	for i, d := range doc.Constraints {
		kind, ok := ParseKind(d.Type)
		if !ok {
			errs = append(errs, fmt.Errorf("constraint %d: unknown type %q", i, d.Type))
			continue
		}
		p := d.Params()
		if kind == KindParallel || kind == KindPerpendicular {
			p = s.collapseLegacy(p)
		}
		if IsDuplicate(s.constraints, kind, p) {
			Logger().Warn("dropping duplicate constraint", slog.Int("index", i), slog.String("kind", d.Type))
			continue
		}
		if !s.AddConstraint(kind, p) {
			errs = append(errs, fmt.Errorf("constraint %d (%s): invalid or unresolved references", i, d.Type))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("decode sketch: %w", errors.Join(errs...))
	}
	return s, nil
}

// MarshalJSON encodes the sketch as a Document.
func (s *Sketch) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

// UnmarshalJSON replaces the sketch with the decoded document. On error the
// sketch is left unchanged.
func (s *Sketch) UnmarshalJSON(b []byte) error {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("decode sketch: %w", err)
	}
	decoded, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

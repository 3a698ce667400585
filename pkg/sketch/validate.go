package sketch

import (
	"fmt"

	"github.com/chazu/sketch/pkg/geom"
)

// ValidationSeverity indicates whether a finding means the sketch is
// corrupt or merely suspicious.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // corrupt state
	SeverityWarning                           // degenerate but solvable
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string             // "joint j1", "shape s2", "constraint 3"; empty if sketch-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// Validate checks the structural invariants of a sketch and returns every
// finding. An empty slice means the sketch is sound. Validate never
// mutates the sketch.
func Validate(s *Sketch) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateOrigin(s)...)
	errs = append(errs, validatePositions(s)...)
	errs = append(errs, validateShapes(s)...)
	errs = append(errs, validateConstraints(s)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateOrigin(s *Sketch) []ValidationError {
	o := s.Joint(OriginID)
	if o == nil {
		return []ValidationError{{Message: "origin joint is missing", Severity: SeverityError}}
	}
	var errs []ValidationError
	if !o.Fixed {
		errs = append(errs, ValidationError{
			Subject: "joint " + string(OriginID), Message: "origin is not fixed", Severity: SeverityError,
		})
	}
	if o.Position.X != 0 || o.Position.Y != 0 {
		errs = append(errs, ValidationError{
			Subject:  "joint " + string(OriginID),
			Message:  fmt.Sprintf("origin is at (%g, %g), want (0, 0)", o.Position.X, o.Position.Y),
			Severity: SeverityWarning,
		})
	}
	return errs
}

func validatePositions(s *Sketch) []ValidationError {
	var errs []ValidationError
	for _, j := range s.Joints() {
		if !geom.IsFinite(j.Position) {
			errs = append(errs, ValidationError{
				Subject: "joint " + string(j.ID), Message: "position is not finite", Severity: SeverityError,
			})
		}
	}
	return errs
}

func validateShapes(s *Sketch) []ValidationError {
	var errs []ValidationError
	for _, sh := range s.shapes {
		subject := "shape " + string(sh.ID)
		dangling := false
		for _, jid := range sh.Joints {
			if !s.HasJoint(jid) {
				dangling = true
				errs = append(errs, ValidationError{
					Subject: subject, Message: fmt.Sprintf("references missing joint %q", jid), Severity: SeverityError,
				})
			}
		}
		if sh.Joints[0] == sh.Joints[1] {
			errs = append(errs, ValidationError{
				Subject: subject, Message: "both ends are the same joint", Severity: SeverityError,
			})
			continue
		}
		if dangling {
			continue
		}
		a, b, _ := s.Endpoints(sh.ID)
		if geom.Dist(a, b) < geom.Epsilon {
			what := "line has zero length"
			if sh.IsCircle() {
				what = "circle has zero radius"
			}
			errs = append(errs, ValidationError{Subject: subject, Message: what, Severity: SeverityWarning})
		}
	}
	return errs
}

func validateConstraints(s *Sketch) []ValidationError {
	var errs []ValidationError
	for i, c := range s.constraints {
		subject := fmt.Sprintf("constraint %d (%s)", i, c.Kind())
		if err := s.checkRoles(c); err != nil {
			errs = append(errs, ValidationError{Subject: subject, Message: err.Error(), Severity: SeverityError})
		}
		switch c := c.(type) {
		case Coincident:
			if c.A == c.B {
				errs = append(errs, ValidationError{
					Subject: subject, Message: "joint is coincident with itself", Severity: SeverityError,
				})
			}
		case Distance:
			if c.Value < 0 {
				errs = append(errs, ValidationError{
					Subject: subject, Message: fmt.Sprintf("negative distance %g", c.Value), Severity: SeverityError,
				})
			}
		}
		if IsDuplicate(s.constraints[:i], c.Kind(), paramsOf(c)) {
			errs = append(errs, ValidationError{
				Subject: subject, Message: "duplicates an earlier constraint", Severity: SeverityWarning,
			})
		}
	}
	return errs
}

package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint is a bare coordinate pair returned by (pt x y). Builtins that
// take a joint create a fresh joint from it.
type sexpPoint struct {
	p geom.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %g %g)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpJointRef names a joint of the sketch being built.
type sexpJointRef struct {
	id sketch.JointID
}

func (j *sexpJointRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(j %q)", string(j.id))
}
func (j *sexpJointRef) Type() *zygo.RegisteredType { return nil }

// sexpShapeRef names a line or circle of the sketch being built.
type sexpShapeRef struct {
	id   sketch.ShapeID
	kind sketch.ShapeKind
}

func (r *sexpShapeRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", r.kind, string(r.id))
}
func (r *sexpShapeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	flags      map[string]bool
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A keyword
// that is last or directly followed by another keyword is a flag.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp), flags: make(map[string]bool)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next {
				result.kw[name] = args[i+1]
				i++
				continue
			}
		}
		result.flags[name] = true
	}
	return result
}

// flag reports whether a boolean option is set, either as a bare flag
// (:fixed) or with an explicit value (:fixed true).
func (a kwArgs) flag(name string) (bool, error) {
	if a.flags[name] {
		return true, nil
	}
	v, ok := a.kw[name]
	if !ok {
		return false, nil
	}
	return toBool(v)
}

// float returns a numeric option, or def when absent.
func (a kwArgs) float(name string, def float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	return toFloat64(v)
}

// str returns a string option, or "" when absent.
func (a kwArgs) str(name string) (string, error) {
	v, ok := a.kw[name]
	if !ok {
		return "", nil
	}
	return toString(v)
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean. Numbers are true when non-zero.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a coordinate from a (pt x y) value or an existing joint.
func toPoint(s zygo.Sexp, sk *sketch.Sketch) (geom.Point, error) {
	switch v := s.(type) {
	case *sexpPoint:
		return v.p, nil
	case *sexpJointRef:
		if p, ok := sk.Position(v.id); ok {
			return p, nil
		}
		return geom.Point{}, fmt.Errorf("joint %q no longer exists", v.id)
	}
	return geom.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toShapeRef extracts a shape reference.
func toShapeRef(s zygo.Sexp) (sketch.ShapeID, error) {
	if ref, ok := s.(*sexpShapeRef); ok {
		return ref.id, nil
	}
	return "", fmt.Errorf("expected line or circle, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// flatten expands list and array arguments in place, so (collinear a b c)
// and (collinear [a b c]) mean the same thing.
func flatten(args []zygo.Sexp) []zygo.Sexp {
	var out []zygo.Sexp
	for _, a := range args {
		if items, err := sexpListToSlice(a); err == nil && a != zygo.SexpNull {
			out = append(out, items...)
			continue
		}
		out = append(out, a)
	}
	return out
}

package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
	"github.com/chazu/sketch/pkg/solver"
)

// scope is the state shared by the builtins of one evaluation.
type scope struct {
	sk           *sketch.Sketch
	joints       sketch.IDGenerator
	shapes       sketch.IDGenerator
	autoCoincide bool
}

func newScope(s *sketch.Sketch, autoCoincide bool) *scope {
	return &scope{
		sk:           s,
		joints:       sketch.NewSequenceGenerator("j"),
		shapes:       sketch.NewSequenceGenerator("s"),
		autoCoincide: autoCoincide,
	}
}

// newJoint inserts a joint, named or generated, and binds it to any joint
// already sitting on the same spot.
func (sc *scope) newJoint(p geom.Point, name string, fixed bool) (sketch.JointID, error) {
	var id sketch.JointID
	if name != "" {
		id = sketch.JointID(name)
		if err := sc.sk.AddJoint(sketch.Joint{ID: id, Position: p, Fixed: fixed}); err != nil {
			return "", err
		}
	} else {
		id = sc.sk.NewJoint(sc.joints, p)
		sc.sk.Joint(id).Fixed = fixed
	}
	if sc.autoCoincide {
		sc.sk.AutoCoincide(id)
	}
	return id, nil
}

// joint resolves a joint argument. A (pt x y) value creates a new joint.
func (sc *scope) joint(s zygo.Sexp) (sketch.JointID, error) {
	switch v := s.(type) {
	case *sexpJointRef:
		if !sc.sk.HasJoint(v.id) {
			return "", fmt.Errorf("joint %q no longer exists", v.id)
		}
		return v.id, nil
	case *sexpPoint:
		return sc.newJoint(v.p, "", false)
	}
	return "", fmt.Errorf("expected joint or point, got %T (%s)", s, s.SexpString(nil))
}

// jointPair resolves either two joint arguments or a single line whose
// endpoints are used.
func (sc *scope) jointPair(args []zygo.Sexp) (sketch.JointID, sketch.JointID, error) {
	switch len(args) {
	case 1:
		id, err := toShapeRef(args[0])
		if err != nil {
			return "", "", err
		}
		sh, ok := sc.sk.Shape(id)
		if !ok || !sh.IsLine() {
			return "", "", fmt.Errorf("%q is not a line", id)
		}
		return sh.Joints[0], sh.Joints[1], nil
	case 2:
		a, err := sc.joint(args[0])
		if err != nil {
			return "", "", err
		}
		b, err := sc.joint(args[1])
		if err != nil {
			return "", "", err
		}
		return a, b, nil
	}
	return "", "", fmt.Errorf("expected two joints or one line, got %d arguments", len(args))
}

func (sc *scope) shapeRef(id sketch.ShapeID) *sexpShapeRef {
	sh, _ := sc.sk.Shape(id)
	return &sexpShapeRef{id: id, kind: sh.Kind}
}

func (sc *scope) rectList(r sketch.Rect) zygo.Sexp {
	items := make([]zygo.Sexp, 0, len(r.Sides))
	for _, id := range r.Sides {
		items = append(items, sc.shapeRef(id))
	}
	return zygo.MakeList(items)
}

func sexpBool(v bool) zygo.Sexp {
	return &zygo.SexpBool{Val: v}
}

// builtinFunc matches the signature zygomys expects from AddFunction.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// wrap prefixes every error returned by fn with the builtin name.
func wrap(fn func(args []zygo.Sexp) (zygo.Sexp, error)) builtinFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		res, err := fn(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return res, nil
	}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the sketch DSL into a zygomys environment. The
// builtins populate sc.sk during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scope) {
	registerGeometry(env, sc)
	registerConstraints(env, sc)

	// (merge from to)
	env.AddFunction("merge", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires exactly 2 joints, got %d", len(args))
		}
		from, err := sc.joint(args[0])
		if err != nil {
			return nil, err
		}
		to, err := sc.joint(args[1])
		if err != nil {
			return nil, err
		}
		sc.sk.MergeJoints(from, to)
		return &sexpJointRef{id: to}, nil
	}))

	// (delete ref) removes a shape or a free joint.
	env.AddFunction("delete", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires exactly 1 argument, got %d", len(args))
		}
		switch v := args[0].(type) {
		case *sexpShapeRef:
			return sexpBool(sc.sk.DeleteShape(v.id)), nil
		case *sexpJointRef:
			return sexpBool(sc.sk.DeleteJoint(v.id)), nil
		}
		return nil, fmt.Errorf("expected joint or shape, got %T", args[0])
	}))

	// (solve) or (solve 50); returns the remaining residual.
	env.AddFunction("solve", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		n := 0
		if len(args) > 0 {
			f, err := toFloat64(args[0])
			if err != nil {
				return nil, fmt.Errorf("iterations: %w", err)
			}
			n = int(f)
		}
		solver.Solve(sc.sk, n)
		return &zygo.SexpFloat{Val: solver.TotalResidual(sc.sk)}, nil
	}))
}

func registerGeometry(env *zygo.Zlisp, sc *scope) {

	// -----------------------------------------------------------------------
	// (pt 10 20)
	// -----------------------------------------------------------------------
	env.AddFunction("pt", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return nil, fmt.Errorf("x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return nil, fmt.Errorf("y: %w", err)
		}
		return &sexpPoint{p: geom.Pt(x, y)}, nil
	}))

	// -----------------------------------------------------------------------
	// (joint 10 20 :name "a" :fixed) or (joint (pt 10 20))
	// -----------------------------------------------------------------------
	env.AddFunction("joint", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var p geom.Point
		switch len(pa.positional) {
		case 1:
			var err error
			if p, err = toPoint(pa.positional[0], sc.sk); err != nil {
				return nil, err
			}
		case 2:
			x, err := toFloat64(pa.positional[0])
			if err != nil {
				return nil, fmt.Errorf("x: %w", err)
			}
			y, err := toFloat64(pa.positional[1])
			if err != nil {
				return nil, fmt.Errorf("y: %w", err)
			}
			p = geom.Pt(x, y)
		default:
			return nil, fmt.Errorf("requires x and y or a point, got %d arguments", len(pa.positional))
		}
		name, err := pa.str("name")
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		fixed, err := pa.flag("fixed")
		if err != nil {
			return nil, fmt.Errorf("fixed: %w", err)
		}
		id, err := sc.newJoint(p, name, fixed)
		if err != nil {
			return nil, err
		}
		return &sexpJointRef{id: id}, nil
	}))

	// (origin)
	env.AddFunction("origin", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpJointRef{id: sketch.OriginID}, nil
	}))

	// (j "a")
	env.AddFunction("j", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a joint id")
		}
		name, err := toString(args[0])
		if err != nil {
			return nil, err
		}
		id := sketch.JointID(name)
		if !sc.sk.HasJoint(id) {
			return nil, fmt.Errorf("no joint named %q", name)
		}
		return &sexpJointRef{id: id}, nil
	}))

	// (shape "l1")
	env.AddFunction("shape", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a shape id")
		}
		name, err := toString(args[0])
		if err != nil {
			return nil, err
		}
		id := sketch.ShapeID(name)
		if _, ok := sc.sk.Shape(id); !ok {
			return nil, fmt.Errorf("no shape named %q", name)
		}
		return sc.shapeRef(id), nil
	}))

	// -----------------------------------------------------------------------
	// (line a b :group "g" :name "l1") and (circle center edge :name "c1")
	// -----------------------------------------------------------------------
	addShape := func(kind sketch.ShapeKind) builtinFunc {
		return wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) != 2 {
				return nil, fmt.Errorf("requires exactly 2 joints, got %d", len(pa.positional))
			}
			a, err := sc.joint(pa.positional[0])
			if err != nil {
				return nil, err
			}
			b, err := sc.joint(pa.positional[1])
			if err != nil {
				return nil, err
			}
			name, err := pa.str("name")
			if err != nil {
				return nil, fmt.Errorf("name: %w", err)
			}
			group, err := pa.str("group")
			if err != nil {
				return nil, fmt.Errorf("group: %w", err)
			}
			if kind == sketch.ShapeCircle {
				group = ""
			}

			var id sketch.ShapeID
			if name != "" {
				id = sketch.ShapeID(name)
				err = sc.sk.AddShape(sketch.Shape{ID: id, Kind: kind, Joints: [2]sketch.JointID{a, b}, GroupID: group})
			} else if kind == sketch.ShapeLine {
				id, err = sc.sk.NewLine(sc.shapes, a, b, group)
			} else {
				id, err = sc.sk.NewCircle(sc.shapes, a, b)
			}
			if err != nil {
				return nil, err
			}
			return &sexpShapeRef{id: id, kind: kind}, nil
		})
	}
	env.AddFunction("line", addShape(sketch.ShapeLine))
	env.AddFunction("circle", addShape(sketch.ShapeCircle))

	// -----------------------------------------------------------------------
	// (rect a c), (rect center corner :center), (rect3 a b c)
	// All return the list of four sides.
	// -----------------------------------------------------------------------
	env.AddFunction("rect", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return nil, fmt.Errorf("requires exactly 2 joints, got %d", len(pa.positional))
		}
		a, err := sc.joint(pa.positional[0])
		if err != nil {
			return nil, err
		}
		b, err := sc.joint(pa.positional[1])
		if err != nil {
			return nil, err
		}
		centered, err := pa.flag("center")
		if err != nil {
			return nil, fmt.Errorf("center: %w", err)
		}
		var r sketch.Rect
		if centered {
			r, err = sc.sk.RectFromCenter(sc.shapes, a, b)
		} else {
			r, err = sc.sk.RectFromCorners(sc.shapes, a, b)
		}
		if err != nil {
			return nil, err
		}
		return sc.rectList(r), nil
	}))

	env.AddFunction("rect3", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires exactly 3 joints, got %d", len(args))
		}
		var ids [3]sketch.JointID
		for i, a := range args {
			id, err := sc.joint(a)
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		r, err := sc.sk.RectFrom3Points(sc.shapes, ids[0], ids[1], ids[2])
		if err != nil {
			return nil, err
		}
		return sc.rectList(r), nil
	}))
}

func registerConstraints(env *zygo.Zlisp, sc *scope) {
	add := func(kind sketch.Kind, p sketch.Params) zygo.Sexp {
		ok := sc.sk.AddConstraint(kind, p)
		if !ok {
			sketch.Logger().Debug("script constraint rejected", "kind", kind.String())
		}
		return sexpBool(ok)
	}

	// (coincident a b), (horizontal a b), (vertical a b); the pair forms
	// also accept a single line.
	for _, kind := range []sketch.Kind{sketch.KindCoincident, sketch.KindHorizontal, sketch.KindVertical} {
		env.AddFunction(kind.String(), wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
			a, b, err := sc.jointPair(args)
			if err != nil {
				return nil, err
			}
			return add(kind, sketch.Params{Joints: []sketch.JointID{a, b}}), nil
		}))
	}

	// -----------------------------------------------------------------------
	// (distance a b 40 :offset 20) or (distance line 40)
	// -----------------------------------------------------------------------
	env.AddFunction("distance", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return nil, fmt.Errorf("requires joints and a value")
		}
		last := len(pa.positional) - 1
		value, err := toFloat64(pa.positional[last])
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		a, b, err := sc.jointPair(pa.positional[:last])
		if err != nil {
			return nil, err
		}
		offset, err := pa.float("offset", 0)
		if err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
		radius, err := pa.flag("radius")
		if err != nil {
			return nil, fmt.Errorf("radius: %w", err)
		}
		return add(sketch.KindDistance, sketch.Params{
			Joints: []sketch.JointID{a, b}, Value: value, Offset: offset, IsRadius: radius,
		}), nil
	}))

	// (radius circle 15)
	env.AddFunction("radius", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires a circle and a value")
		}
		id, err := toShapeRef(args[0])
		if err != nil {
			return nil, err
		}
		sh, ok := sc.sk.Shape(id)
		if !ok || !sh.IsCircle() {
			return nil, fmt.Errorf("%q is not a circle", id)
		}
		value, err := toFloat64(args[1])
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		return add(sketch.KindDistance, sketch.Params{
			Joints: []sketch.JointID{sh.Center(), sh.RadiusPoint()}, Value: value, IsRadius: true,
		}), nil
	}))

	// (parallel l1 l2), (perpendicular l1 l2)
	for _, kind := range []sketch.Kind{sketch.KindParallel, sketch.KindPerpendicular} {
		env.AddFunction(kind.String(), wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("requires exactly 2 lines, got %d", len(args))
			}
			first, err := toShapeRef(args[0])
			if err != nil {
				return nil, err
			}
			second, err := toShapeRef(args[1])
			if err != nil {
				return nil, err
			}
			return add(kind, sketch.Params{Shapes: []sketch.ShapeID{first, second}}), nil
		}))
	}

	// (point-on-line j l)
	env.AddFunction("point_on_line", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires a joint and a line")
		}
		j, err := sc.joint(args[0])
		if err != nil {
			return nil, err
		}
		l, err := toShapeRef(args[1])
		if err != nil {
			return nil, err
		}
		return add(sketch.KindPointOnLine, sketch.Params{Joint: j, Shape: l}), nil
	}))

	// (collinear a b c ...)
	env.AddFunction("collinear", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		var ids []sketch.JointID
		for _, a := range flatten(args) {
			id, err := sc.joint(a)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return add(sketch.KindCollinear, sketch.Params{Joints: ids}), nil
	}))

	// (tangent l c)
	env.AddFunction("tangent", wrap(func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires a line and a circle")
		}
		l, err := toShapeRef(args[0])
		if err != nil {
			return nil, err
		}
		c, err := toShapeRef(args[1])
		if err != nil {
			return nil, err
		}
		return add(sketch.KindTangent, sketch.Params{Line: l, Circle: c}), nil
	}))
}

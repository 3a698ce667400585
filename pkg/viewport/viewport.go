// Package viewport maps between sketch model space and device (pixel)
// space. A Viewport shows a rectangular region of the model, scaled
// uniformly and centered in the pixel area, the way an SVG viewBox is
// displayed. It implements snap.Mapper.
package viewport

import (
	"errors"
	"math"

	"github.com/gogpu/gg"

	"github.com/chazu/sketch/pkg/geom"
)

// ErrEmptyArea is returned when a view or pixel area has no extent.
var ErrEmptyArea = errors.New("viewport: empty area")

// Rect is an axis-aligned region of model space centered on (X, Y).
type Rect struct {
	X, Y, W, H float64
}

// Viewport is a model-to-device mapping. It is not safe for concurrent
// mutation.
type Viewport struct {
	view     Rect
	pixelW   float64
	pixelH   float64
	toDevice gg.Matrix
	toModel  gg.Matrix
}

// New returns a viewport showing view in a pixelW by pixelH area.
func New(view Rect, pixelW, pixelH float64) (*Viewport, error) {
	if view.W <= 0 || view.H <= 0 || pixelW <= 0 || pixelH <= 0 {
		return nil, ErrEmptyArea
	}
	v := &Viewport{view: view, pixelW: pixelW, pixelH: pixelH}
	v.update()
	return v, nil
}

// update recomputes both matrices from the view and pixel size.
func (v *Viewport) update() {
	s := v.Scale()
	v.toDevice = gg.Translate(v.pixelW/2, v.pixelH/2).
		Multiply(gg.Scale(s, s)).
		Multiply(gg.Translate(-v.view.X, -v.view.Y))
	v.toModel = v.toDevice.Invert()
}

// View returns the visible model region.
func (v *Viewport) View() Rect { return v.view }

// Scale returns the number of device units per model unit.
func (v *Viewport) Scale() float64 {
	return math.Min(v.pixelW/v.view.W, v.pixelH/v.view.H)
}

// Matrix returns the model-to-device transform.
func (v *Viewport) Matrix() gg.Matrix { return v.toDevice }

// ToDevice maps a model point to device space.
func (v *Viewport) ToDevice(p geom.Point) geom.Point {
	q := v.toDevice.TransformPoint(gg.Point{X: p.X, Y: p.Y})
	return geom.Pt(q.X, q.Y)
}

// ToModel maps a device point to model space.
func (v *Viewport) ToModel(p geom.Point) geom.Point {
	q := v.toModel.TransformPoint(gg.Point{X: p.X, Y: p.Y})
	return geom.Pt(q.X, q.Y)
}

// Pan moves the content by dx, dy device units.
func (v *Viewport) Pan(dx, dy float64) {
	s := v.Scale()
	v.view.X -= dx / s
	v.view.Y -= dy / s
	v.update()
}

// Zoom scales the view by factor around a device-space anchor, which stays
// over the same model point. The view center moves toward the anchor. Factors above one zoom in. Non-positive
// factors are ignored.
func (v *Viewport) Zoom(factor float64, anchor geom.Point) {
	if factor <= 0 {
		return
	}
	m := v.ToModel(anchor)
	v.view.X = m.X - (m.X-v.view.X)/factor
	v.view.Y = m.Y - (m.Y-v.view.Y)/factor
	v.view.W /= factor
	v.view.H /= factor
	v.update()
}

// Resize changes the pixel area, keeping the model view.
func (v *Viewport) Resize(pixelW, pixelH float64) error {
	if pixelW <= 0 || pixelH <= 0 {
		return ErrEmptyArea
	}
	v.pixelW, v.pixelH = pixelW, pixelH
	v.update()
	return nil
}

// Fit sets the view to the bounding box of pts grown by margin model
// units on every side. Degenerate boxes are widened to one unit.
func (v *Viewport) Fit(pts []geom.Point, margin float64) {
	if len(pts) == 0 {
		return
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	w, h := math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)
	v.view = Rect{X: (minX + maxX) / 2, Y: (minY + maxY) / 2, W: w + 2*margin, H: h + 2*margin}
	v.update()
}

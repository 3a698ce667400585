// Package png implements export.Backend by rasterizing segments with
// github.com/gogpu/gg. The view is fitted to the drawing on Save.
package png

import (
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gg"

	"github.com/chazu/sketch/pkg/export"
	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/viewport"
)

// Compile-time interface check.
var _ export.Backend = (*Backend)(nil)

// Margin is the model-space border kept around the drawing.
const Margin = 10

// Backend rasterizes segments into a Width x Height image.
type Backend struct {
	path          string
	w             io.Writer
	width, height int
	lineWidth     float64
	segs          [][2]geom.Point
}

// New returns a backend that writes a PNG file to path on Save.
func New(path string, width, height int) *Backend {
	return &Backend{path: path, width: width, height: height, lineWidth: 1.5}
}

// NewWriter returns a backend that encodes to w on Save.
func NewWriter(w io.Writer, width, height int) *Backend {
	return &Backend{w: w, width: width, height: height, lineWidth: 1.5}
}

// Line adds a segment.
func (b *Backend) Line(p0, p1 geom.Point) {
	b.segs = append(b.segs, [2]geom.Point{p0, p1})
}

// Save renders the image and writes it to the backend writer or path.
func (b *Backend) Save() error {
	if b.w != nil {
		return b.Encode(b.w)
	}
	f, err := os.Create(b.path)
	if err != nil {
		return err
	}
	if err := b.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode renders the image and writes it as PNG to w.
func (b *Backend) Encode(w io.Writer) error {
	vp, err := viewport.New(viewport.Rect{W: 1, H: 1}, float64(b.width), float64(b.height))
	if err != nil {
		return fmt.Errorf("png: %w", err)
	}
	pts := make([]geom.Point, 0, 2*len(b.segs))
	for _, s := range b.segs {
		pts = append(pts, s[0], s[1])
	}
	vp.Fit(pts, Margin)

	dc := gg.NewContext(b.width, b.height)
	defer dc.Close()
	dc.ClearWithColor(gg.White)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(b.lineWidth)
	for _, s := range b.segs {
		p0, p1 := vp.ToDevice(s[0]), vp.ToDevice(s[1])
		dc.DrawLine(p0.X, p0.Y, p1.X, p1.Y)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("png: stroke: %w", err)
	}
	return dc.EncodePNG(w)
}

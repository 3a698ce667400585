// Package svg implements export.Backend using the SVG writer of the
// github.com/deadsy/sdfx render package.
package svg

import (
	"github.com/deadsy/sdfx/render"

	"github.com/chazu/sketch/pkg/export"
	"github.com/chazu/sketch/pkg/geom"
)

// DefaultLineStyle is the stroke style applied to every segment.
const DefaultLineStyle = "fill:none;stroke:black;stroke-width:0.5"

// Compile-time interface check.
var _ export.Backend = (*Backend)(nil)

// Backend writes segments to an SVG file.
type Backend struct {
	s *render.SVG
}

// New returns a backend that writes to path on Save. An empty style
// selects DefaultLineStyle.
func New(path, style string) *Backend {
	if style == "" {
		style = DefaultLineStyle
	}
	return &Backend{s: render.NewSVG(path, style)}
}

// Line adds a segment.
func (b *Backend) Line(p0, p1 geom.Point) {
	b.s.Line(p0, p1)
}

// Save writes the drawing.
func (b *Backend) Save() error {
	return b.s.Save()
}

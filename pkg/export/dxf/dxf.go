// Package dxf implements export.Backend using the DXF writer of the
// github.com/deadsy/sdfx render package.
package dxf

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/sketch/pkg/export"
	"github.com/chazu/sketch/pkg/geom"
)

// Compile-time interface check.
var _ export.Backend = (*Backend)(nil)

// Backend writes segments to a DXF file.
type Backend struct {
	d     *render.DXF
	lines int
}

// New returns a backend that writes to path on Save.
func New(path string) *Backend {
	return &Backend{d: render.NewDXF(path)}
}

// Line adds a segment.
func (b *Backend) Line(p0, p1 geom.Point) {
	b.d.Line(&sdf.Line2{p0, p1})
	b.lines++
}

// Lines returns the number of segments added so far.
func (b *Backend) Lines() int { return b.lines }

// Save writes the drawing.
func (b *Backend) Save() error {
	return b.d.Save()
}

// Package export defines the abstract drawing backend used to write a
// flattened sketch to a file format. Implementations (dxf, svg, png) live
// in subpackages so callers pick a format without changing the walk.
package export

import (
	"errors"
	"fmt"

	"github.com/chazu/sketch/pkg/flatten"
	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("export: nothing to draw")

// Backend receives straight segments and writes them out on Save.
type Backend interface {
	Line(a, b geom.Point)
	Save() error
}

// Write sends every segment of lines to b and saves it.
func Write(b Backend, lines []flatten.Polyline) error {
	n := 0
	for _, l := range lines {
		for i := 1; i < len(l.Points); i++ {
			b.Line(l.Points[i-1], l.Points[i])
			n++
		}
	}
	if n == 0 {
		return ErrEmpty
	}
	if err := b.Save(); err != nil {
		return fmt.Errorf("export: save: %w", err)
	}
	sketch.Logger().Debug("exported sketch", "polylines", len(lines), "segments", n)
	return nil
}

// Sketch flattens s and writes it to b.
func Sketch(b Backend, s *sketch.Sketch, circleSegments int) error {
	return Write(b, flatten.Flatten(s, circleSegments))
}

package dxf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sketch/pkg/export"
	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

func TestWriteSquare(t *testing.T) {
	s := sketch.New()
	gen := sketch.NewSequenceGenerator("d")
	a := s.NewJoint(gen, geom.Pt(0, 0.5))
	c := s.NewJoint(gen, geom.Pt(20, 10))
	_, err := s.RectFromCorners(gen, a, c)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "square.dxf")
	b := New(path)
	require.NoError(t, export.Sketch(b, s, 0))
	assert.Equal(t, 4, b.Lines())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "LINE")
}

func TestSaveToMissingDirectory(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "missing", "out.dxf"))
	b.Line(geom.Pt(0, 0), geom.Pt(1, 1))
	assert.Error(t, b.Save())
}

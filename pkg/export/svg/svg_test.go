package svg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sketch/pkg/export"
	"github.com/chazu/sketch/pkg/flatten"
	"github.com/chazu/sketch/pkg/geom"
)

func TestWriteTriangle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.svg")
	lines := []flatten.Polyline{{
		Points: []geom.Point{geom.Pt(0, 0), geom.Pt(30, 0), geom.Pt(15, 20), geom.Pt(0, 0)},
		Closed: true,
	}}
	require.NoError(t, export.Write(New(path, ""), lines))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "stroke:black")
}

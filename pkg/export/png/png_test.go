package png

import (
	"bytes"
	imgpng "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sketch/pkg/geom"
)

func TestEncode(t *testing.T) {
	b := New("", 64, 48)
	b.Line(geom.Pt(0, 0), geom.Pt(100, 50))
	b.Line(geom.Pt(100, 50), geom.Pt(0, 50))

	var buf bytes.Buffer
	require.NoError(t, b.Encode(&buf))

	img, err := imgpng.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	b := New(path, 32, 32)
	b.Line(geom.Pt(0, 0), geom.Pt(10, 10))
	require.NoError(t, b.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

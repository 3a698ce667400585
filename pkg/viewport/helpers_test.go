package viewport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/sketch/pkg/geom"
	"github.com/chazu/sketch/pkg/sketch"
)

func newJointSketch(t *testing.T) *sketch.Sketch {
	t.Helper()
	s := sketch.New()
	require.NoError(t, s.AddJoint(sketch.Joint{ID: "a", Position: geom.Pt(200, 200)}))
	return s
}

package geometry

import (
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bottleProfile = [][2]float32{
	{0, -1.2}, {1.25, -1.2}, {1.28, -1.1}, {1.24, -0.5}, {1.22, 0.6},
	{1.07, 1.05}, {0.88, 1.34}, {0.86, 1.65}, {0.9, 1.68},
}

func assertUnitNormals(t *testing.T, g Geometry) {
	t.Helper()
	require.Len(t, g.Normals(), g.VertexCount())
	require.Len(t, g.UVs(), g.VertexCount())
	for i, n := range g.Normals() {
		assert.InDelta(t, 1.0, common.Vec3(n).Len(), 1e-4, "normal %d", i)
	}
	for _, idx := range g.Indices() {
		require.Less(t, int(idx), g.VertexCount())
	}
}

func TestNewLathe(t *testing.T) {
	g := NewLathe(bottleProfile, 192)

	assert.Equal(t, 193*9, g.VertexCount())
	assert.Equal(t, 192*8*2, g.TriangleCount())
	assertUnitNormals(t, g)

	center, radius := g.BoundingSphere()
	assert.InDelta(t, 0.24, center[1], 1e-4)
	assert.Greater(t, radius, float32(1.28))
}

func TestNewLathe_TooFewPoints(t *testing.T) {
	g := NewLathe([][2]float32{{1, 0}}, 12)
	assert.Zero(t, g.VertexCount())
	assert.Zero(t, g.TriangleCount())
}

func TestNewCylinder(t *testing.T) {
	g := NewCylinder(0.95, 0.95, 0.25, 96)

	// side: 2 rows of 97, caps: 96 centers + 97 ring each
	assert.Equal(t, 2*97+2*(96+97), g.VertexCount())
	assert.Equal(t, 96*2+96*2, g.TriangleCount())
	assertUnitNormals(t, g)

	for _, p := range g.Positions() {
		assert.InDelta(t, 0, p[1], 0.125+1e-5)
	}
}

func TestNewCylinder_OpenEnded(t *testing.T) {
	g := NewCylinder(1, 1, 1, 8, WithOpenEnded(), WithHeightSegments(3))
	assert.Equal(t, 4*9, g.VertexCount())
	assert.Equal(t, 8*3*2, g.TriangleCount())
}

func TestNewCone(t *testing.T) {
	g := NewCone(0.22, 0.5, 96)

	assert.Equal(t, "cone", g.Name())
	// apex row has no top cap and drops its degenerate triangles
	assert.Equal(t, 2*97+96+97, g.VertexCount())
	assert.Equal(t, 96+96, g.TriangleCount())
	assertUnitNormals(t, g)
}

func TestNewTorus(t *testing.T) {
	g := NewTorus(0.75, 0.03, 8, 80)

	assert.Equal(t, 9*81, g.VertexCount())
	assert.Equal(t, 8*80*2, g.TriangleCount())
	assertUnitNormals(t, g)

	for _, p := range g.Positions() {
		assert.InDelta(t, 0, p[2], 0.03+1e-5)
	}
}

func TestNewPlane(t *testing.T) {
	g := NewPlane(2.25, 2.05, WithName("label"))

	assert.Equal(t, "label", g.Name())
	assert.Equal(t, 4, g.VertexCount())
	assert.Equal(t, 2, g.TriangleCount())

	p := g.Positions()
	i := g.Indices()
	for k := 0; k < len(i); k += 3 {
		a, b, c := common.Vec3(p[i[k]]), common.Vec3(p[i[k+1]]), common.Vec3(p[i[k+2]])
		n := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, n[2], float32(0), "triangle %d faces +Z", k/3)
	}
}

func TestGeometry_DisposeOnce(t *testing.T) {
	g := NewPlane(1, 1)

	assert.False(t, g.Disposed())
	assert.True(t, g.Dispose())
	assert.False(t, g.Dispose())
	assert.True(t, g.Disposed())
}

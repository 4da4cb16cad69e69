package geometry

import (
	"sync"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/chewxy/math32"
)

// Geometry is an immutable indexed triangle buffer.
// It must be released with Dispose once the owning mesh is torn down.
type Geometry interface {
	// Name returns the geometry name used in logs and exported files.
	Name() string

	// Positions returns the vertex positions in local space.
	Positions() [][3]float32

	// Normals returns one unit normal per vertex.
	Normals() [][3]float32

	// UVs returns one texture coordinate per vertex.
	UVs() [][2]float32

	// Indices returns the triangle list, three indices per triangle, counter-clockwise front faces.
	Indices() []uint32

	// VertexCount returns the number of vertices.
	VertexCount() int

	// TriangleCount returns the number of triangles.
	TriangleCount() int

	// BoundingSphere returns a sphere enclosing every vertex in local space.
	//
	// Returns:
	//   - common.Vec3: sphere center
	//   - float32: sphere radius
	BoundingSphere() (common.Vec3, float32)

	// Dispose releases the geometry.
	//
	// Returns:
	//   - bool: true on the first call, false if the geometry was already released
	Dispose() bool

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

type geometryImpl struct {
	mu *sync.Mutex

	name      string
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	indices   []uint32

	center   common.Vec3
	radius   float32
	disposed bool

	heightSegments int
	openEnded      bool
}

var _ Geometry = &geometryImpl{}

func newGeometry(name string, options []GeometryBuilderOption) *geometryImpl {
	g := &geometryImpl{
		mu:             &sync.Mutex{},
		name:           name,
		heightSegments: 1,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *geometryImpl) push(p, n [3]float32, uv [2]float32) {
	g.positions = append(g.positions, p)
	g.normals = append(g.normals, n)
	g.uvs = append(g.uvs, uv)
}

func (g *geometryImpl) tri(a, b, c uint32) {
	g.indices = append(g.indices, a, b, c)
}

// finish computes the bounding sphere once all vertices are written.
func (g *geometryImpl) finish() *geometryImpl {
	if len(g.positions) == 0 {
		return g
	}
	lo, hi := common.Vec3(g.positions[0]), common.Vec3(g.positions[0])
	for _, p := range g.positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math32.Min(lo[i], p[i])
			hi[i] = math32.Max(hi[i], p[i])
		}
	}
	g.center = lo.Add(hi).Scale(0.5)
	for _, p := range g.positions {
		g.radius = math32.Max(g.radius, common.Vec3(p).Sub(g.center).Len())
	}
	return g
}

func (g *geometryImpl) Name() string {
	return g.name
}

func (g *geometryImpl) Positions() [][3]float32 {
	return g.positions
}

func (g *geometryImpl) Normals() [][3]float32 {
	return g.normals
}

func (g *geometryImpl) UVs() [][2]float32 {
	return g.uvs
}

func (g *geometryImpl) Indices() []uint32 {
	return g.indices
}

func (g *geometryImpl) VertexCount() int {
	return len(g.positions)
}

func (g *geometryImpl) TriangleCount() int {
	return len(g.indices) / 3
}

func (g *geometryImpl) BoundingSphere() (common.Vec3, float32) {
	return g.center, g.radius
}

func (g *geometryImpl) Dispose() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disposed {
		return false
	}
	g.disposed = true
	return true
}

func (g *geometryImpl) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}

func normalize(x, y, z float32) [3]float32 {
	return common.Vec3{x, y, z}.Normalize()
}

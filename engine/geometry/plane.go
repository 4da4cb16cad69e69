package geometry

// NewPlane creates a single quad in the XY plane facing +Z, centered on the origin.
//
// Parameters:
//   - width: size along X
//   - height: size along Y
//   - options: functional options
//
// Returns:
//   - Geometry: the plane, four vertices and two triangles
func NewPlane(width, height float32, options ...GeometryBuilderOption) Geometry {
	g := newGeometry("plane", options)
	hw, hh := width/2, height/2
	n := [3]float32{0, 0, 1}

	g.push([3]float32{-hw, hh, 0}, n, [2]float32{0, 1})
	g.push([3]float32{hw, hh, 0}, n, [2]float32{1, 1})
	g.push([3]float32{-hw, -hh, 0}, n, [2]float32{0, 0})
	g.push([3]float32{hw, -hh, 0}, n, [2]float32{1, 0})

	g.tri(0, 2, 1)
	g.tri(2, 3, 1)
	return g.finish()
}

package geometry

// GeometryBuilderOption is a functional option for configuring a generated Geometry.
type GeometryBuilderOption func(*geometryImpl)

// WithName overrides the default geometry name.
//
// Parameters:
//   - name: the geometry name
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithName(name string) GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.name = name
	}
}

// WithHeightSegments sets the number of rows along a cylinder or cone side.
// Values below 1 are ignored.
//
// Parameters:
//   - segments: number of height segments (default 1)
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithHeightSegments(segments int) GeometryBuilderOption {
	return func(g *geometryImpl) {
		if segments >= 1 {
			g.heightSegments = segments
		}
	}
}

// WithOpenEnded omits the end caps of a cylinder or cone.
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithOpenEnded() GeometryBuilderOption {
	return func(g *geometryImpl) {
		g.openEnded = true
	}
}

package geometry

import (
	"github.com/chewxy/math32"
)

// NewTorus creates a ring torus lying in the XY plane, centered on the origin.
//
// Parameters:
//   - radius: distance from the origin to the center of the tube
//   - tube: tube radius
//   - radialSegments: steps around the tube cross-section (minimum 3)
//   - tubularSegments: steps around the ring (minimum 3)
//   - options: functional options
//
// Returns:
//   - Geometry: the torus
func NewTorus(radius, tube float32, radialSegments, tubularSegments int, options ...GeometryBuilderOption) Geometry {
	g := newGeometry("torus", options)
	radialSegments = max(radialSegments, 3)
	tubularSegments = max(tubularSegments, 3)

	for j := 0; j <= radialSegments; j++ {
		v := float32(j) / float32(radialSegments) * 2 * math32.Pi
		sinV, cosV := math32.Sincos(v)
		for i := 0; i <= tubularSegments; i++ {
			u := float32(i) / float32(tubularSegments) * 2 * math32.Pi
			sinU, cosU := math32.Sincos(u)
			p := [3]float32{
				(radius + tube*cosV) * cosU,
				(radius + tube*cosV) * sinU,
				tube * sinV,
			}
			// normal points from the ring center line to the surface
			n := normalize(p[0]-radius*cosU, p[1]-radius*sinU, p[2])
			g.push(p, n, [2]float32{
				float32(i) / float32(tubularSegments),
				float32(j) / float32(radialSegments),
			})
		}
	}

	stride := uint32(tubularSegments + 1)
	for j := uint32(1); j <= uint32(radialSegments); j++ {
		for i := uint32(1); i <= uint32(tubularSegments); i++ {
			a := stride*j + i - 1
			b := stride*(j-1) + i - 1
			c := stride*(j-1) + i
			d := stride*j + i
			g.tri(a, b, d)
			g.tri(b, c, d)
		}
	}
	return g.finish()
}

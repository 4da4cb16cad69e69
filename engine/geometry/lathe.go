package geometry

import (
	"github.com/chewxy/math32"
)

// NewLathe revolves a 2D profile around the Y axis.
// Each profile point is (radius, height). The seam is duplicated so that UVs wrap cleanly,
// giving (segments+1) * len(points) vertices.
//
// Parameters:
//   - points: the profile, at least two points, ordered bottom to top
//   - segments: number of angular steps around the axis (minimum 3)
//   - options: functional options
//
// Returns:
//   - Geometry: the lathed surface
func NewLathe(points [][2]float32, segments int, options ...GeometryBuilderOption) Geometry {
	g := newGeometry("lathe", options)
	segments = max(segments, 3)
	if len(points) < 2 {
		return g.finish()
	}

	profileNormals := latheProfileNormals(points)
	n := len(points)

	for i := 0; i <= segments; i++ {
		phi := float32(i) / float32(segments) * 2 * math32.Pi
		sin, cos := math32.Sincos(phi)
		for j, p := range points {
			pn := profileNormals[j]
			g.push(
				[3]float32{p[0] * sin, p[1], p[0] * cos},
				normalize(pn[0]*sin, pn[1], pn[0]*cos),
				[2]float32{float32(i) / float32(segments), float32(j) / float32(n-1)},
			)
		}
	}

	for i := 0; i < segments; i++ {
		for j := 0; j < n-1; j++ {
			base := uint32(j + i*n)
			a, b, c, d := base, base+uint32(n), base+uint32(n)+1, base+1
			g.tri(a, b, d)
			g.tri(c, d, b)
		}
	}
	return g.finish()
}

// latheProfileNormals averages the perpendiculars of adjacent profile segments.
func latheProfileNormals(points [][2]float32) [][2]float32 {
	out := make([][2]float32, len(points))
	var prev [2]float32
	last := len(points) - 1
	for j := range points {
		switch {
		case j == 0:
			dx, dy := points[1][0]-points[0][0], points[1][1]-points[0][1]
			prev = [2]float32{dy, -dx}
			out[j] = normalize2(prev)
		case j == last:
			out[j] = normalize2(prev)
		default:
			dx, dy := points[j+1][0]-points[j][0], points[j+1][1]-points[j][1]
			cur := [2]float32{dy, -dx}
			out[j] = normalize2([2]float32{cur[0] + prev[0], cur[1] + prev[1]})
			prev = cur
		}
	}
	return out
}

func normalize2(v [2]float32) [2]float32 {
	l := math32.Hypot(v[0], v[1])
	if l == 0 {
		return v
	}
	return [2]float32{v[0] / l, v[1] / l}
}

package geometry

import (
	"github.com/chewxy/math32"
)

// NewCylinder creates a capped cylinder (or truncated cone) centered on the origin along Y.
// A zero top or bottom radius drops that cap and collapses the side to a point.
//
// Parameters:
//   - radiusTop: radius at +height/2
//   - radiusBottom: radius at -height/2
//   - height: total height
//   - radialSegments: angular steps (minimum 3)
//   - options: functional options (WithHeightSegments, WithOpenEnded, WithName)
//
// Returns:
//   - Geometry: the cylinder
func NewCylinder(radiusTop, radiusBottom, height float32, radialSegments int, options ...GeometryBuilderOption) Geometry {
	g := newGeometry("cylinder", options)
	radialSegments = max(radialSegments, 3)
	half := height / 2

	g.side(radiusTop, radiusBottom, height, radialSegments)
	if !g.openEnded {
		if radiusTop > 0 {
			g.cap(true, radiusTop, half, radialSegments)
		}
		if radiusBottom > 0 {
			g.cap(false, radiusBottom, half, radialSegments)
		}
	}
	return g.finish()
}

// NewCone creates a cone with its apex at +height/2.
//
// Parameters:
//   - radius: base radius
//   - height: total height
//   - radialSegments: angular steps (minimum 3)
//   - options: functional options
//
// Returns:
//   - Geometry: the cone
func NewCone(radius, height float32, radialSegments int, options ...GeometryBuilderOption) Geometry {
	return NewCylinder(0, radius, height, radialSegments, append([]GeometryBuilderOption{WithName("cone")}, options...)...)
}

func (g *geometryImpl) side(radiusTop, radiusBottom, height float32, radialSegments int) {
	half := height / 2
	slope := float32(0)
	if height != 0 {
		slope = (radiusBottom - radiusTop) / height
	}
	rows := g.heightSegments
	grid := make([][]uint32, rows+1)

	for y := 0; y <= rows; y++ {
		v := float32(y) / float32(rows)
		radius := v*(radiusBottom-radiusTop) + radiusTop
		grid[y] = make([]uint32, radialSegments+1)
		for x := 0; x <= radialSegments; x++ {
			u := float32(x) / float32(radialSegments)
			sin, cos := math32.Sincos(u * 2 * math32.Pi)
			grid[y][x] = uint32(len(g.positions))
			g.push(
				[3]float32{radius * sin, -v*height + half, radius * cos},
				normalize(sin, slope, cos),
				[2]float32{u, 1 - v},
			)
		}
	}

	for x := 0; x < radialSegments; x++ {
		for y := 0; y < rows; y++ {
			a, b, c, d := grid[y][x], grid[y+1][x], grid[y+1][x+1], grid[y][x+1]
			if radiusTop > 0 || y != 0 {
				g.tri(a, b, d)
			}
			if radiusBottom > 0 || y != rows-1 {
				g.tri(b, c, d)
			}
		}
	}
}

func (g *geometryImpl) cap(top bool, radius, half float32, radialSegments int) {
	sign := float32(-1)
	if top {
		sign = 1
	}
	centerStart := uint32(len(g.positions))
	for x := 1; x <= radialSegments; x++ {
		g.push([3]float32{0, half * sign, 0}, [3]float32{0, sign, 0}, [2]float32{0.5, 0.5})
	}
	ringStart := uint32(len(g.positions))
	for x := 0; x <= radialSegments; x++ {
		u := float32(x) / float32(radialSegments)
		sin, cos := math32.Sincos(u * 2 * math32.Pi)
		g.push(
			[3]float32{radius * sin, half * sign, radius * cos},
			[3]float32{0, sign, 0},
			[2]float32{cos*0.5 + 0.5, sin*0.5*sign + 0.5},
		)
	}
	for x := uint32(0); x < uint32(radialSegments); x++ {
		c, i := centerStart+x, ringStart+x
		if top {
			g.tri(i, i+1, c)
		} else {
			g.tri(i+1, i, c)
		}
	}
}

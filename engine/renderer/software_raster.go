package renderer

import (
	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/chewxy/math32"
)

// clipVertex is a vertex in clip space carrying the attributes interpolated across a triangle.
type clipVertex struct {
	clip   [4]float32
	world  common.Vec3
	normal common.Vec3
	uv     [2]float32
}

func lerpClipVertex(a, b clipVertex, t float32) clipVertex {
	var out clipVertex
	for i := range out.clip {
		out.clip[i] = a.clip[i] + (b.clip[i]-a.clip[i])*t
	}
	out.world = a.world.Add(b.world.Sub(a.world).Scale(t))
	out.normal = a.normal.Add(b.normal.Sub(a.normal).Scale(t))
	out.uv = [2]float32{a.uv[0] + (b.uv[0]-a.uv[0])*t, a.uv[1] + (b.uv[1]-a.uv[1])*t}
	return out
}

// clipNear clips a polygon against the z >= 0 clip plane (WebGPU depth range).
// The result has 0, 3 or 4 vertices for a triangle input.
func clipNear(in []clipVertex) []clipVertex {
	out := make([]clipVertex, 0, len(in)+1)
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da, db := a.clip[2], b.clip[2]
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpClipVertex(a, b, da/(da-db)))
		}
	}
	return out
}

// outsideSameSide reports whether all vertices lie outside the same x or y clip plane.
func outsideSameSide(v [3]clipVertex) bool {
	for axis := range 2 {
		below, above := 0, 0
		for _, cv := range v {
			if cv.clip[axis] < -cv.clip[3] {
				below++
			}
			if cv.clip[axis] > cv.clip[3] {
				above++
			}
		}
		if below == 3 || above == 3 {
			return true
		}
	}
	return false
}

// rasterVertex is a screen-space vertex. Attributes are premultiplied by invW so they
// interpolate linearly in screen space.
type rasterVertex struct {
	x, y, z float32
	invW    float32
	world   common.Vec3
	normal  common.Vec3
	uv      [2]float32
}

// rasterTri is a screen-space triangle tagged with the draw item it belongs to.
type rasterTri struct {
	v          [3]rasterVertex
	item       int
	minY, maxY int
	area       float32
}

func toRaster(cv clipVertex, width, height int) rasterVertex {
	invW := 1 / cv.clip[3]
	return rasterVertex{
		x:      (cv.clip[0]*invW*0.5 + 0.5) * float32(width),
		y:      (0.5 - cv.clip[1]*invW*0.5) * float32(height),
		z:      cv.clip[2] * invW,
		invW:   invW,
		world:  cv.world.Scale(invW),
		normal: cv.normal.Scale(invW),
		uv:     [2]float32{cv.uv[0] * invW, cv.uv[1] * invW},
	}
}

// setupTriangles clips a clip-space triangle and appends the resulting screen triangles.
func setupTriangles(dst []rasterTri, v [3]clipVertex, item, width, height int) []rasterTri {
	if outsideSameSide(v) {
		return dst
	}
	poly := clipNear(v[:])
	for i := 1; i+1 < len(poly); i++ {
		t := rasterTri{
			v: [3]rasterVertex{
				toRaster(poly[0], width, height),
				toRaster(poly[i], width, height),
				toRaster(poly[i+1], width, height),
			},
			item: item,
		}
		t.area = edge(t.v[0].x, t.v[0].y, t.v[1].x, t.v[1].y, t.v[2].x, t.v[2].y)
		if t.area == 0 || math32.IsNaN(t.area) {
			continue
		}
		lo := math32.Min(t.v[0].y, math32.Min(t.v[1].y, t.v[2].y))
		hi := math32.Max(t.v[0].y, math32.Max(t.v[1].y, t.v[2].y))
		t.minY = max(int(math32.Floor(lo)), 0)
		t.maxY = min(int(math32.Ceil(hi)), height-1)
		if t.minY > t.maxY {
			continue
		}
		dst = append(dst, t)
	}
	return dst
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// fragment holds perspective-correct attributes at a pixel center.
type fragment struct {
	x, y   int
	depth  float32
	world  common.Vec3
	normal common.Vec3
	uv     [2]float32
}

// rasterize visits every pixel center of t within rows [y0, y1) and columns [0, width).
// Triangles of either winding are filled.
func rasterize(t *rasterTri, y0, y1, width int, visit func(f *fragment)) {
	ys := max(t.minY, y0)
	ye := min(t.maxY, y1-1)
	if ys > ye {
		return
	}
	a, b, c := &t.v[0], &t.v[1], &t.v[2]
	lo := math32.Min(a.x, math32.Min(b.x, c.x))
	hi := math32.Max(a.x, math32.Max(b.x, c.x))
	xs := max(int(math32.Floor(lo)), 0)
	xe := min(int(math32.Ceil(hi)), width-1)
	if xs > xe {
		return
	}
	invArea := 1 / t.area

	var f fragment
	for y := ys; y <= ye; y++ {
		py := float32(y) + 0.5
		for x := xs; x <= xe; x++ {
			px := float32(x) + 0.5
			l0 := edge(b.x, b.y, c.x, c.y, px, py) * invArea
			l1 := edge(c.x, c.y, a.x, a.y, px, py) * invArea
			l2 := edge(a.x, a.y, b.x, b.y, px, py) * invArea
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}
			w := l0*a.invW + l1*b.invW + l2*c.invW
			if w <= 0 {
				continue
			}
			pw := 1 / w
			f.x, f.y = x, y
			f.depth = l0*a.z + l1*b.z + l2*c.z
			f.world = a.world.Scale(l0).Add(b.world.Scale(l1)).Add(c.world.Scale(l2)).Scale(pw)
			f.normal = a.normal.Scale(l0).Add(b.normal.Scale(l1)).Add(c.normal.Scale(l2)).Scale(pw)
			f.uv = [2]float32{
				(l0*a.uv[0] + l1*b.uv[0] + l2*c.uv[0]) * pw,
				(l0*a.uv[1] + l1*b.uv[1] + l2*c.uv[1]) * pw,
			}
			visit(&f)
		}
	}
}

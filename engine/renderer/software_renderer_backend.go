package renderer

import (
	"image"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/light"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"github.com/chewxy/math32"
)

// softwareMaxAnisotropy matches the level desktop GPUs commonly report.
const softwareMaxAnisotropy uint16 = 16

// softwareRendererBackendImpl rasterizes frames on the CPU. The target is split into
// horizontal bands that are rasterized concurrently; each band owns its rows of the
// color and depth buffers. Every lane is a single-worker pool so that Release can stop
// each worker deterministically.
type softwareRendererBackendImpl struct {
	mu *sync.Mutex

	width  int
	height int
	color  *image.RGBA
	depth  []float32

	shadowW     int
	shadowH     int
	shadowDepth []float32

	lanes    []worker.DynamicWorkerPool
	taskID   int
	released bool
}

var _ RendererBackend = &softwareRendererBackendImpl{}

func newSoftwareRendererBackend(workers int) *softwareRendererBackendImpl {
	workers = max(workers, 1)
	b := &softwareRendererBackendImpl{
		mu: &sync.Mutex{},
	}
	if workers > 1 {
		b.lanes = make([]worker.DynamicWorkerPool, workers)
		for i := range b.lanes {
			b.lanes[i] = worker.NewDynamicWorkerPool(1, 4, time.Second)
		}
	}
	return b
}

func (b *softwareRendererBackendImpl) Configure(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrDisposed
	}
	if width == b.width && height == b.height && b.color != nil {
		return nil
	}
	b.width, b.height = width, height
	b.color = image.NewRGBA(image.Rect(0, 0, width, height))
	b.depth = make([]float32, width*height)
	return nil
}

func (b *softwareRendererBackendImpl) MaxAnisotropy() uint16 {
	return softwareMaxAnisotropy
}

func (b *softwareRendererBackendImpl) Snapshot() (*image.RGBA, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.color == nil {
		return nil, ErrSnapshotUnsupported
	}
	out := image.NewRGBA(b.color.Rect)
	copy(out.Pix, b.color.Pix)
	return out, nil
}

func (b *softwareRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true
	for _, lane := range b.lanes {
		lane.Stop()
	}
	b.lanes = nil
	b.color = nil
	b.depth = nil
	b.shadowDepth = nil
}

func (b *softwareRendererBackendImpl) Draw(f *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrDisposed
	}

	if b.color == nil || f.Width != b.width || f.Height != b.height {
		b.width, b.height = f.Width, f.Height
		b.color = image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
		b.depth = make([]float32, f.Width*f.Height)
	}

	var shadowVP common.Mat4
	var bias float32
	hasShadow := f.ShadowLight != nil
	if hasShadow {
		shadowVP = f.ShadowLight.ShadowViewProjection()
		bias = f.ShadowLight.Shadow().Bias
		b.drawShadowMap(f.ShadowLight.Shadow(), shadowVP, f.ShadowCasters)
	}

	tris := b.setup(f.Items, f.ViewProj, b.width, b.height)
	bg := f.Background.RGBA()

	b.parallelBands(b.height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := b.color.Pix[y*b.color.Stride : y*b.color.Stride+b.width*4]
			for x := 0; x < b.width; x++ {
				row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = bg.R, bg.G, bg.B, bg.A
			}
			depthRow := b.depth[y*b.width : (y+1)*b.width]
			for i := range depthRow {
				depthRow[i] = 1
			}
		}
		for i := range tris {
			t := &tris[i]
			item := &f.Items[t.item]
			rasterize(t, y0, y1, b.width, func(fr *fragment) {
				if fr.depth < 0 || fr.depth > 1 {
					return
				}
				di := fr.y*b.width + fr.x
				if fr.depth >= b.depth[di] {
					return
				}
				visibility := float32(1)
				if hasShadow && item.ReceiveShadow {
					visibility = b.shadowVisibility(shadowVP, bias, fr.world)
				}
				c, alpha := shade(f, item, fr.world, fr.normal.Normalize(), fr.uv, visibility)
				if alpha <= 0 {
					return
				}
				b.depth[di] = fr.depth
				b.blend(fr.x, fr.y, c.SRGB(), alpha)
			})
		}
	})
	return nil
}

// setup transforms and clips every triangle of items into screen space.
func (b *softwareRendererBackendImpl) setup(items []DrawItem, viewProj common.Mat4, width, height int) []rasterTri {
	var tris []rasterTri
	for idx := range items {
		it := &items[idx]
		pos := it.Geometry.Positions()
		nrm := it.Geometry.Normals()
		uvs := it.Geometry.UVs()
		verts := make([]clipVertex, len(pos))
		for i, p := range pos {
			w := it.World.TransformPoint(common.Vec3(p))
			verts[i] = clipVertex{
				clip:   viewProj.TransformClip(w),
				world:  w,
				normal: it.Normal.TransformDir(common.Vec3(nrm[i])).Normalize(),
				uv:     uvs[i],
			}
		}
		indices := it.Geometry.Indices()
		for i := 0; i+2 < len(indices); i += 3 {
			tris = setupTriangles(tris, [3]clipVertex{verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]]}, idx, width, height)
		}
	}
	return tris
}

// drawShadowMap renders caster depth from the light into the shadow depth buffer.
func (b *softwareRendererBackendImpl) drawShadowMap(s light.Shadow, vp common.Mat4, casters []DrawItem) {
	if b.shadowW != s.MapWidth || b.shadowH != s.MapHeight || b.shadowDepth == nil {
		b.shadowW, b.shadowH = s.MapWidth, s.MapHeight
		b.shadowDepth = make([]float32, s.MapWidth*s.MapHeight)
	}
	tris := b.setup(casters, vp, b.shadowW, b.shadowH)
	b.parallelBands(b.shadowH, func(y0, y1 int) {
		rows := b.shadowDepth[y0*b.shadowW : y1*b.shadowW]
		for i := range rows {
			rows[i] = 1
		}
		for i := range tris {
			rasterize(&tris[i], y0, y1, b.shadowW, func(fr *fragment) {
				di := fr.y*b.shadowW + fr.x
				if fr.depth >= 0 && fr.depth < b.shadowDepth[di] {
					b.shadowDepth[di] = fr.depth
				}
			})
		}
	})
}

// shadowVisibility returns the lit fraction at a world position using 3x3 PCF.
func (b *softwareRendererBackendImpl) shadowVisibility(vp common.Mat4, bias float32, world common.Vec3) float32 {
	p := vp.TransformPoint(world)
	u := (p[0]*0.5 + 0.5) * float32(b.shadowW)
	v := (0.5 - p[1]*0.5) * float32(b.shadowH)
	if p[2] > 1 || u < 0 || v < 0 || u >= float32(b.shadowW) || v >= float32(b.shadowH) {
		return 1
	}
	cx, cy := int(u), int(v)
	lit := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x := common.Clamp(cx+dx, 0, b.shadowW-1)
			y := common.Clamp(cy+dy, 0, b.shadowH-1)
			if p[2]-bias <= b.shadowDepth[y*b.shadowW+x] {
				lit++
			}
		}
	}
	return float32(lit) / 9
}

// blend composites an sRGB color over the target pixel.
func (b *softwareRendererBackendImpl) blend(x, y int, c common.Color, alpha float32) {
	o := b.color.PixOffset(x, y)
	px := b.color.Pix[o : o+4]
	if alpha >= 1 {
		rgba := c.RGBA()
		px[0], px[1], px[2], px[3] = rgba.R, rgba.G, rgba.B, 0xff
		return
	}
	dst := common.Color{float32(px[0]) / 255, float32(px[1]) / 255, float32(px[2]) / 255}
	out := dst.Lerp(c, alpha).RGBA()
	px[0], px[1], px[2] = out.R, out.G, out.B
	px[3] = uint8(math32.Min(float32(px[3])+alpha*255, 255))
}

// parallelBands runs fn over disjoint row ranges covering [0, height), one band per
// lane, and waits for all of them.
func (b *softwareRendererBackendImpl) parallelBands(height int, fn func(y0, y1 int)) {
	bands := min(len(b.lanes), height)
	if bands <= 1 {
		fn(0, height)
		return
	}
	step := (height + bands - 1) / bands

	var wg sync.WaitGroup
	lane := 0
	for y0 := 0; y0 < height; y0 += step {
		y1 := min(y0+step, height)
		wg.Add(1)
		start, end := y0, y1
		b.taskID++
		b.lanes[lane%len(b.lanes)].SubmitTask(worker.Task{
			ID: b.taskID,
			Do: func() (any, error) {
				defer wg.Done()
				fn(start, end)
				return nil, nil
			},
		})
		lane++
	}
	wg.Wait()
}

// shade computes the linear color and coverage of a surface point.
func shade(f *Frame, item *DrawItem, pos, n common.Vec3, uv [2]float32, visibility float32) (common.Color, float32) {
	m := item.Material
	if m.Kind() == material.KindShadow {
		return common.Color{}, m.Opacity() * (1 - visibility)
	}

	view := f.Eye.Sub(pos).Normalize()
	if n.Dot(view) < 0 {
		n = n.Scale(-1)
	}

	albedo := m.Color().Linear()
	alpha := float32(1)
	if m.Transparent() {
		alpha = m.Opacity()
	}
	if tex := m.Map(); tex != nil && !tex.Disposed() {
		c, a := tex.Sample(uv[0], uv[1])
		if tex.SRGB() {
			c = c.Linear()
		}
		albedo = albedo.Mul(c)
		if m.Transparent() {
			alpha *= a
		}
	}

	metal := m.Metalness()
	irradiance := light.Irradiance(f.Lights, n, visibility)
	out := albedo.Scale(1 - metal).Mul(irradiance)

	f0 := common.Color{0.04, 0.04, 0.04}.Lerp(albedo, metal)
	out = out.Add(light.Specular(f.Lights, n, view, m.Roughness(), visibility).Mul(f0))

	if cc := m.Clearcoat(); cc > 0 {
		out = out.Add(light.Specular(f.Lights, n, view, 0.1, visibility).Scale(cc * 0.04))
	}
	if sh := m.Sheen(); sh > 0 {
		rim := 1 - math32.Max(n.Dot(view), 0)
		out = out.Add(irradiance.Scale(sh * rim * rim * 0.25))
	}
	return out, alpha
}

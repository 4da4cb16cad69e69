package material

import (
	"image"
	"sync"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/chewxy/math32"
)

type texture struct {
	mu *sync.Mutex

	name       string
	img        *image.RGBA
	srgb       bool
	anisotropy uint16
	blank      bool

	disposed bool
}

// Texture is a raster image sampled by materials.
type Texture interface {
	// Name returns the texture identifier.
	Name() string

	// Image returns the backing RGBA image. It is never nil.
	Image() *image.RGBA

	// Width returns the image width in pixels.
	Width() int

	// Height returns the image height in pixels.
	Height() int

	// SRGB reports whether the pixels are sRGB encoded.
	SRGB() bool

	// Anisotropy returns the anisotropic filtering level requested for sampling.
	Anisotropy() uint16

	// Blank reports whether this is a placeholder texture with no drawn content.
	Blank() bool

	// Sample returns the bilinearly filtered color at (u, v), with v = 0 at the bottom row.
	//
	// Parameters:
	//   - u, v: texture coordinates, clamped to [0, 1]
	//
	// Returns:
	//   - common.Color: the sRGB color
	//   - float32: the alpha in [0, 1]
	Sample(u, v float32) (common.Color, float32)

	// Staging returns the pixels packaged for GPU upload.
	Staging() common.TextureStagingData

	// Sampler returns the sampler configuration for GPU upload.
	Sampler() common.SamplerStagingData

	// Dispose releases the texture.
	//
	// Returns:
	//   - bool: true on the first call, false if already released
	Dispose() bool

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

var _ Texture = &texture{}

// NewTexture wraps an RGBA image as a Texture. A nil image produces a blank 1x1 transparent texture.
//
// Parameters:
//   - img: the source image
//   - options: functional options
//
// Returns:
//   - Texture: the texture
func NewTexture(img *image.RGBA, options ...TextureBuilderOption) Texture {
	t := &texture{
		mu:         &sync.Mutex{},
		img:        img,
		anisotropy: 1,
	}
	if img == nil {
		t.img = image.NewRGBA(image.Rect(0, 0, 1, 1))
		t.blank = true
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// NewBlankTexture returns the placeholder texture used when nothing could be drawn.
func NewBlankTexture(options ...TextureBuilderOption) Texture {
	return NewTexture(nil, options...)
}

func (t *texture) Name() string {
	return t.name
}

func (t *texture) Image() *image.RGBA {
	return t.img
}

func (t *texture) Width() int {
	return t.img.Bounds().Dx()
}

func (t *texture) Height() int {
	return t.img.Bounds().Dy()
}

func (t *texture) SRGB() bool {
	return t.srgb
}

func (t *texture) Anisotropy() uint16 {
	return t.anisotropy
}

func (t *texture) Blank() bool {
	return t.blank
}

func (t *texture) Sample(u, v float32) (common.Color, float32) {
	b := t.img.Bounds()
	w, h := b.Dx(), b.Dy()

	x := common.Clamp(u, 0, 1)*float32(w) - 0.5
	y := (1-common.Clamp(v, 0, 1))*float32(h) - 0.5
	x0, y0 := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0, y-y0

	px := func(ix, iy int) [4]float32 {
		ix = common.Clamp(ix, 0, w-1)
		iy = common.Clamp(iy, 0, h-1)
		o := t.img.PixOffset(b.Min.X+ix, b.Min.Y+iy)
		p := t.img.Pix[o : o+4]
		return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
	}

	ix, iy := int(x0), int(y0)
	c00, c10 := px(ix, iy), px(ix+1, iy)
	c01, c11 := px(ix, iy+1), px(ix+1, iy+1)

	var out [4]float32
	for i := range out {
		top := c00[i] + (c10[i]-c00[i])*fx
		bot := c01[i] + (c11[i]-c01[i])*fx
		out[i] = top + (bot-top)*fy
	}
	return common.Color{out[0], out[1], out[2]}, out[3]
}

func (t *texture) Staging() common.TextureStagingData {
	return common.NewTextureStagingData(t.img, t.srgb)
}

func (t *texture) Sampler() common.SamplerStagingData {
	return common.DefaultSampler(t.anisotropy)
}

func (t *texture) Dispose() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return false
	}
	t.disposed = true
	return true
}

func (t *texture) Disposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed
}

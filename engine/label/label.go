// Package label draws the bottle label onto an offscreen raster and wraps it as a texture.
package label

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Fixed label layout.
const (
	Width  = 1024
	Height = 900

	Title    = "OIISHI"
	Subtitle = "JAPANESE"
	Product  = "YAKINIKU SAUCE"
	NetSize  = "NET 8.5 FL OZ | 250 mL"

	titleSize    = 180
	subtitleSize = 90
	netSize      = 48
)

var (
	Background = common.Hex(0xefe6cf)
	Accent     = common.Hex(0xcc3a20)
	Ink        = common.Hex(0x111111)
)

// SurfaceFactory allocates the raster surface the label is drawn on.
// Returning nil signals that no drawing surface is available.
type SurfaceFactory func(width, height int) *image.RGBA

// DefaultSurface allocates an in-memory RGBA surface.
func DefaultSurface(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// baseline selects which text edge the y coordinate positions.
type baseline int

const (
	baselineTop baseline = iota
	baselineBottom
	baselineAlphabetic
)

type builder struct {
	surface    SurfaceFactory
	anisotropy uint16
	logger     *zap.Logger
}

// Build draws the label and returns it as an sRGB texture.
// It never fails: when the surface or fonts are unavailable a blank texture is returned instead.
//
// Parameters:
//   - options: functional options (surface factory, anisotropy, logger)
//
// Returns:
//   - material.Texture: the label texture, owned by the caller
func Build(options ...BuilderOption) material.Texture {
	b := &builder{
		surface:    DefaultSurface,
		anisotropy: 1,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		opt(b)
	}
	texOpts := []material.TextureBuilderOption{
		material.WithTextureName("label"),
		material.WithSRGB(true),
		material.WithAnisotropy(b.anisotropy),
	}

	img := b.surface(Width, Height)
	if img == nil {
		b.logger.Warn("label surface unavailable, using blank texture")
		return material.NewBlankTexture(texOpts...)
	}
	if err := draw2D(img); err != nil {
		b.logger.Warn("label drawing failed, using blank texture", zap.Error(err))
		return material.NewBlankTexture(texOpts...)
	}
	return material.NewTexture(img, texOpts...)
}

func draw2D(img *image.RGBA) error {
	w, h := float32(img.Bounds().Dx()), float32(img.Bounds().Dy())

	draw.Draw(img, img.Bounds(), image.NewUniform(Background.RGBA()), image.Point{}, draw.Src)
	fillCircle(img, w*0.5, h*0.42, h*0.28, Accent)

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse regular font: %w", err)
	}

	lines := []struct {
		text string
		font *opentype.Font
		size float64
		y    float32
		base baseline
	}{
		{Title, bold, titleSize, h * 0.06, baselineTop},
		{Subtitle, bold, subtitleSize, h*0.86 - 140, baselineBottom},
		{Product, bold, subtitleSize, h * 0.86, baselineBottom},
		{NetSize, regular, netSize, h - 36, baselineAlphabetic},
	}
	for _, l := range lines {
		if err := drawCentered(img, l.text, l.font, l.size, w/2, l.y, l.base); err != nil {
			return err
		}
	}
	return nil
}

// drawCentered draws text horizontally centered on cx, with y interpreted per base.
func drawCentered(img *image.RGBA, text string, f *opentype.Font, size float64, cx, y float32, base baseline) error {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("failed to create %q face: %w", text, err)
	}
	defer face.Close()

	m := face.Metrics()
	dot := fixed.Int26_6(y * 64)
	switch base {
	case baselineTop:
		dot += m.Ascent
	case baselineBottom:
		dot -= m.Descent
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(Ink.RGBA()),
		Face: face,
	}
	adv := d.MeasureString(text)
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(cx*64) - adv/2, Y: dot}
	d.DrawString(text)
	return nil
}

// fillCircle rasterizes an antialiased disc using four cubic arcs.
func fillCircle(img *image.RGBA, cx, cy, r float32, c common.Color) {
	const k = 0.5522847498 // cubic bezier quarter-circle constant
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over

	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k*r, cx+k*r, cy+r, cx, cy+r)
	z.CubeTo(cx-k*r, cy+r, cx-r, cy+k*r, cx-r, cy)
	z.CubeTo(cx-r, cy-k*r, cx-k*r, cy-r, cx, cy-r)
	z.CubeTo(cx+k*r, cy-r, cx+r, cy-k*r, cx+r, cy)
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(c.RGBA()), image.Point{})
}

package label

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func pixel(t *testing.T, img *image.RGBA, x, y int) [3]uint8 {
	t.Helper()
	c := img.RGBAAt(x, y)
	return [3]uint8{c.R, c.G, c.B}
}

func TestBuild_DrawsLabel(t *testing.T) {
	tex := Build(WithAnisotropy(16))

	require.NotNil(t, tex)
	assert.False(t, tex.Blank())
	assert.True(t, tex.SRGB())
	assert.Equal(t, uint16(16), tex.Anisotropy())
	assert.Equal(t, Width, tex.Width())
	assert.Equal(t, Height, tex.Height())

	img := tex.Image()
	bg := Background.RGBA()
	accent := Accent.RGBA()
	assert.Equal(t, [3]uint8{bg.R, bg.G, bg.B}, pixel(t, img, 5, 5))
	// left edge of the accent disc, clear of any text
	assert.Equal(t, [3]uint8{accent.R, accent.G, accent.B}, pixel(t, img, 512-240, 378))
}

func TestBuild_TextIsCentered(t *testing.T) {
	img := Build().Image()

	// the title band is symmetric around the vertical center line
	inkLeft, inkRight := -1, -1
	for x := 0; x < Width; x++ {
		for y := 60; y < 200; y++ {
			c := img.RGBAAt(x, y)
			if c.R < 0x40 && c.G < 0x40 && c.B < 0x40 {
				if inkLeft < 0 {
					inkLeft = x
				}
				inkRight = x
				break
			}
		}
	}
	require.GreaterOrEqual(t, inkLeft, 0)
	assert.InDelta(t, Width/2, (inkLeft+inkRight)/2, 12)
}

func TestBuild_FallbackWithoutSurface(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tex := Build(
		WithSurfaceFactory(func(int, int) *image.RGBA { return nil }),
		WithLogger(zap.New(core)),
	)

	require.NotNil(t, tex)
	assert.True(t, tex.Blank())
	assert.True(t, tex.SRGB())
	assert.Equal(t, 1, logs.Len())

	assert.True(t, tex.Dispose())
	assert.True(t, tex.Disposed())
}

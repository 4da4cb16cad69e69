package common

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Color is an sRGB-encoded color with components in [0, 1].
type Color [3]float32

// Hex builds a Color from a 0xRRGGBB value.
func Hex(rgb uint32) Color {
	return Color{
		float32((rgb>>16)&0xff) / 255,
		float32((rgb>>8)&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}

// ParseHex parses "#rrggbb", "#rgb" or the same without the leading hash.
//
// Parameters:
//   - s: the color string
//
// Returns:
//   - Color: the parsed color
//   - error: error if s is not a valid hex color
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Hex(uint32(v)), nil
}

// Hex returns the 0xRRGGBB value of c.
func (c Color) Hex() uint32 {
	r := c.RGBA()
	return uint32(r.R)<<16 | uint32(r.G)<<8 | uint32(r.B)
}

// RGBA converts c to an opaque 8-bit color.
func (c Color) RGBA() color.RGBA {
	to8 := func(v float32) uint8 {
		return uint8(Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.RGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: 0xff}
}

// Linear converts the sRGB components to linear light.
func (c Color) Linear() Color {
	var out Color
	for i, v := range c {
		if v <= 0.04045 {
			out[i] = v / 12.92
		} else {
			out[i] = math32.Pow((v+0.055)/1.055, 2.4)
		}
	}
	return out
}

// SRGB converts linear components back to sRGB encoding.
func (c Color) SRGB() Color {
	var out Color
	for i, v := range c {
		v = Clamp(v, 0, 1)
		if v <= 0.0031308 {
			out[i] = v * 12.92
		} else {
			out[i] = 1.055*math32.Pow(v, 1/2.4) - 0.055
		}
	}
	return out
}

func (c Color) Scale(s float32) Color {
	return Color{c[0] * s, c[1] * s, c[2] * s}
}

func (c Color) Add(o Color) Color {
	return Color{c[0] + o[0], c[1] + o[1], c[2] + o[2]}
}

func (c Color) Mul(o Color) Color {
	return Color{c[0] * o[0], c[1] * o[1], c[2] * o[2]}
}

// Lerp blends c toward o by t.
func (c Color) Lerp(o Color, t float32) Color {
	return c.Add(o.Sub(c).Scale(t))
}

func (c Color) Sub(o Color) Color {
	return Color{c[0] - o[0], c[1] - o[1], c[2] - o[2]}
}

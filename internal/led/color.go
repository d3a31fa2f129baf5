// Package led contains the in-memory representation of LED strips.
package led

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is a color in RGB order.
type RGBColor [3]uint8

// Named colors. The values match the HTML color names, so Green is the
// half-intensity #008000 rather than #00FF00.
var (
	Black = RGBColor{0x00, 0x00, 0x00}
	Green = RGBColor{0x00, 0x80, 0x00}
	Red   = RGBColor{0xFF, 0x00, 0x00}
	Blue  = RGBColor{0x00, 0x00, 0xFF}
)

// String returns the color as "#rrggbb".
func (c RGBColor) String() string {
	return colorful.Color{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
	}.Hex()
}

// ToRGBA converts the color to an opaque color.RGBA.
func (c RGBColor) ToRGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xFF}
}

// ColorOrder is the order in which a strip expects the color channels on the
// wire.
type ColorOrder uint8

const (
	// GRB is the order used by WS2812B strips.
	GRB ColorOrder = iota
	// RGB is the natural order.
	RGB
)

func (o ColorOrder) String() string {
	switch o {
	case GRB:
		return "GRB"
	case RGB:
		return "RGB"
	default:
		return fmt.Sprintf("ColorOrder(%d)", o)
	}
}

func (o *ColorOrder) UnmarshalText(text []byte) error {
	switch string(text) {
	case "GRB", "grb":
		*o = GRB
	case "RGB", "rgb":
		*o = RGB
	default:
		return fmt.Errorf("unknown color order %q", text)
	}
	return nil
}

func (o ColorOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o ColorOrder) put(dst []uint8, c RGBColor) {
	switch o {
	case GRB:
		dst[0], dst[1], dst[2] = c[1], c[0], c[2]
	default:
		dst[0], dst[1], dst[2] = c[0], c[1], c[2]
	}
}

// Brightness is a global brightness level where 0 is off and 255 is full
// intensity.
type Brightness uint8

// FullBrightness leaves colors untouched.
const FullBrightness Brightness = 0xFF

// Scale scales every channel of c by the brightness. It uses the same
// arithmetic as FastLED's scale8: value * (b+1) >> 8.
func (b Brightness) Scale(c RGBColor) RGBColor {
	if b == FullBrightness {
		return c
	}
	return RGBColor{scale8(c[0], b), scale8(c[1], b), scale8(c[2], b)}
}

// ScaleByte scales a single channel value by the brightness.
func (b Brightness) ScaleByte(v uint8) uint8 {
	if b == FullBrightness {
		return v
	}
	return scale8(v, b)
}

// Percent returns the brightness as a truncated percentage of full
// brightness.
func (b Brightness) Percent() int {
	return int(b) * 100 / 255
}

func scale8(v uint8, b Brightness) uint8 {
	return uint8((uint16(v) * (uint16(b) + 1)) >> 8)
}

package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBColor_String(t *testing.T) {
	assert.Equal(t, "#008000", Green.String())
	assert.Equal(t, "#ff0000", Red.String())
	assert.Equal(t, "#123456", RGBColor{0x12, 0x34, 0x56}.String())
}

func TestBrightness_Scale(t *testing.T) {
	assert.Equal(t, Red, FullBrightness.Scale(Red))
	assert.Equal(t, Black, Brightness(0).Scale(Red))
	assert.Equal(t, RGBColor{0x14, 0x0a, 0x00}, Brightness(20).Scale(RGBColor{0xFF, 0x80, 0x00}))
	assert.Equal(t, RGBColor{0x80, 0x40, 0x00}, Brightness(128).Scale(RGBColor{0xFF, 0x80, 0x00}))
}

func TestBrightness_ScaleByte(t *testing.T) {
	assert.Equal(t, uint8(0x14), Brightness(20).ScaleByte(0xFF))
	assert.Equal(t, uint8(0xFF), FullBrightness.ScaleByte(0xFF))
	assert.Equal(t, uint8(0), Brightness(0).ScaleByte(0xFF))
}

func TestBrightness_Percent(t *testing.T) {
	assert.Equal(t, 7, Brightness(20).Percent())
	assert.Equal(t, 20, Brightness(51).Percent())
	assert.Equal(t, 100, FullBrightness.Percent())
}

func TestLEDs_AsPixels(t *testing.T) {
	leds := LEDs{Red, Green, Blue}

	assert.Equal(t, []uint8{
		0x00, 0xFF, 0x00,
		0x80, 0x00, 0x00,
		0x00, 0x00, 0xFF,
	}, leds.AsPixels(nil, GRB, FullBrightness))

	assert.Equal(t, []uint8{
		0xFF, 0x00, 0x00,
		0x00, 0x80, 0x00,
		0x00, 0x00, 0xFF,
	}, leds.AsPixels(nil, RGB, FullBrightness))

	buf := make([]uint8, 0, 9)
	out := leds.AsPixels(buf, RGB, 0)
	assert.Equal(t, make([]uint8, 9), out)
	assert.Equal(t, &buf[:1][0], &out[0], "buffer should be reused")

	assert.Empty(t, LEDs(nil).AsPixels(nil, GRB, FullBrightness))
}

func TestLEDs_Scaled(t *testing.T) {
	leds := LEDs{Blue, Blue}

	buf := make(LEDs, 0, 2)
	scaled := leds.Scaled(buf, 0)
	assert.Equal(t, LEDs{Black, Black}, scaled)
	assert.Equal(t, &buf[:1][0], &scaled[0], "buffer should be reused")
	assert.Equal(t, Blue, leds[0], "the source strip is left untouched")
}

func TestColorOrder_UnmarshalText(t *testing.T) {
	var o ColorOrder
	require.NoError(t, o.UnmarshalText([]byte("rgb")))
	assert.Equal(t, RGB, o)
	require.NoError(t, o.UnmarshalText([]byte("GRB")))
	assert.Equal(t, GRB, o)
	assert.Error(t, o.UnmarshalText([]byte("BGR")))
}

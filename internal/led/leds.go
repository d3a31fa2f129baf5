package led

// LEDs describes a strip of LEDs. It is a preallocated slice of RGBColor.
type LEDs []RGBColor

// NewLEDs creates a new strip of LEDs. Colors are initialized to black
// (off).
func NewLEDs(numLEDs int) LEDs {
	return make(LEDs, numLEDs)
}

// AsPixels returns the LED strip as a slice of uint8 values. Each LED is
// represented by three values, one for each color channel, laid out in the
// given order and scaled by the given brightness. If dst has enough capacity,
// it is reused.
func (l LEDs) AsPixels(dst []uint8, order ColorOrder, b Brightness) []uint8 {
	if cap(dst) < 3*len(l) {
		dst = make([]uint8, 3*len(l))
	}
	dst = dst[:3*len(l)]

	for i, c := range l {
		c = b.Scale(c)
		order.put(dst[3*i:3*i+3], c)
	}

	return dst
}

// Scaled writes the strip scaled by the given brightness into dst and returns
// it. dst is grown if it is too short.
func (l LEDs) Scaled(dst LEDs, b Brightness) LEDs {
	if cap(dst) < len(l) {
		dst = make(LEDs, len(l))
	}
	dst = dst[:len(l)]
	for i, c := range l {
		dst[i] = b.Scale(c)
	}
	return dst
}

// Package strip drives the WS2812B strips of the tree.
package strip

import (
	"image/color"
	"machine"
	"runtime/interrupt"

	"libdb.so/treeglow/internal/led"
	"tinygo.org/x/drivers/ws2812"
)

// Output writes strips to WS2812B LEDs, one data pin per strip.
type Output struct {
	devs   []ws2812.Device
	scaled led.LEDs
	buf    []color.RGBA
}

// New configures the given pins as outputs and returns an Output with one
// strip per pin.
func New(pins []machine.Pin) *Output {
	devs := make([]ws2812.Device, len(pins))
	for i, pin := range pins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		devs[i] = ws2812.New(pin)
	}
	return &Output{devs: devs}
}

// NumStrips returns the number of strips.
func (o *Output) NumStrips() int {
	return len(o.devs)
}

// Show scales every strip by the brightness and writes it out. Strips beyond
// the number of pins are ignored. The driver reorders the channels to GRB.
func (o *Output) Show(strips []led.LEDs, brightness led.Brightness) error {
	for i, strip := range strips {
		if i >= len(o.devs) {
			break
		}

		o.scaled = strip.Scaled(o.scaled, brightness)
		if cap(o.buf) < len(o.scaled) {
			o.buf = make([]color.RGBA, len(o.scaled))
		}
		buf := o.buf[:len(o.scaled)]
		for j, c := range o.scaled {
			buf[j] = c.ToRGBA()
		}

		var err error
		critical(func() { err = o.devs[i].WriteColors(buf) })
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteRaw writes already ordered and scaled GRB bytes to one strip.
func (o *Output) WriteRaw(i int, pix []uint8) {
	critical(func() {
		for _, b := range pix {
			o.devs[i].WriteByte(b)
		}
	})
}

// Close does nothing; the pins stay configured.
func (o *Output) Close() error {
	return nil
}

func critical(f func()) {
	state := interrupt.Disable()
	f()
	interrupt.Restore(state)
}

// Pins converts GPIO numbers to machine pins.
func Pins(gpios []uint8) []machine.Pin {
	pins := make([]machine.Pin, len(gpios))
	for i, n := range gpios {
		pins[i] = machine.Pin(n)
	}
	return pins
}

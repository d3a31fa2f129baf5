//go:build ws281x

package ledout

import (
	"github.com/pkg/errors"
	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
	"libdb.so/treeglow/internal/led"
)

// WS281x drives the strips through the rpi_ws281x library.
type WS281x struct {
	dev        *ws2811.WS2811
	opts       WS281xOptions
	brightness int
}

// OpenWS281x initializes the rpi_ws281x device.
func OpenWS281x(opts WS281xOptions) (*WS281x, error) {
	opt := ws2811.DefaultOptions
	opt.Frequency = opts.Frequency
	opt.DmaNum = opts.DMA
	opt.Channels[0].GpioPin = opts.Pin
	opt.Channels[0].LedCount = opts.TotalLEDs()
	opt.Channels[0].Brightness = 0
	if opts.GRB {
		opt.Channels[0].StripeType = ws2811.WS2811StripGRB
	} else {
		opt.Channels[0].StripeType = ws2811.WS2811StripRGB
	}

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ws281x device")
	}
	if err := dev.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize ws281x device")
	}

	return &WS281x{dev: dev, opts: opts, brightness: -1}, nil
}

// Show renders the strips end to end on channel 0.
func (w *WS281x) Show(strips []led.LEDs, brightness led.Brightness) error {
	if int(brightness) != w.brightness {
		w.dev.SetBrightness(0, int(brightness))
		w.brightness = int(brightness)
	}

	leds := w.dev.Leds(0)
	var i int
	for _, strip := range strips {
		for _, c := range strip {
			if i >= len(leds) {
				return errors.Errorf("chain has only %d LEDs", len(leds))
			}
			leds[i] = uint32(c[0])<<16 | uint32(c[1])<<8 | uint32(c[2])
			i++
		}
	}

	if err := w.dev.Render(); err != nil {
		return errors.Wrap(err, "failed to render")
	}
	return nil
}

// Close turns the LEDs off and releases the device.
func (w *WS281x) Close() error {
	leds := w.dev.Leds(0)
	for i := range leds {
		leds[i] = 0
	}
	err := w.dev.Render()
	w.dev.Fini()
	return err
}

//go:build !ws281x

package ledout

import (
	"github.com/pkg/errors"
	"libdb.so/treeglow/internal/led"
)

// WS281x is unavailable in this build. Build with -tags ws281x on a
// Raspberry Pi with rpi_ws281x installed.
type WS281x struct{}

// OpenWS281x always fails in this build.
func OpenWS281x(opts WS281xOptions) (*WS281x, error) {
	return nil, errors.New("treeglow was built without ws281x support")
}

func (w *WS281x) Show(strips []led.LEDs, brightness led.Brightness) error {
	return errors.New("ws281x unavailable")
}

func (w *WS281x) Close() error { return nil }

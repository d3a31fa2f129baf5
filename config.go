package treeglow

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/internal/ticker"
)

// Defaults match the ESP32 tree: four WS2812B strips of 600 LEDs each.
const (
	DefaultNumLEDs    = 600
	DefaultBrightness = 20
	DefaultBaud       = 115200
	DefaultAckTimeout = 2 * time.Second
)

// DefaultPins are the GPIO numbers of the four strips on the ESP32.
var DefaultPins = []int{14, 27, 26, 25}

// Config is the configuration for the treeglow daemon.
type Config struct {
	// Output selects the backend that drives the strips.
	Output OutputKind `toml:"output"`
	// Device is the path to the serial device of the controller.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// AckTimeout is how long to wait for the controller to acknowledge a
	// packet.
	AckTimeout TOMLDuration `toml:"ack_timeout"`

	// LEDs is the number of LEDs on every strip. Zero is allowed.
	LEDs *int `toml:"leds,omitempty"`
	// Pins identifies the output channel of each strip. On the ESP32 these
	// are GPIO numbers. The number of pins is the number of strips.
	Pins []int `toml:"pins"`
	// Brightness is the global brightness, 0 to 255.
	Brightness *int `toml:"brightness,omitempty"`
	// Order is the color order of the strips.
	Order led.ColorOrder `toml:"order"`

	// Interval is the time between pattern changes.
	Interval TOMLDuration `toml:"interval"`
	// Tick is the time the polling loop sleeps between polls.
	Tick TOMLDuration `toml:"tick"`
	// Seed seeds the random source. Zero seeds from the current time.
	Seed int64 `toml:"seed"`

	// WS281x configures the Raspberry Pi backend.
	WS281x WS281xConfig `toml:"ws281x"`
}

// WS281xConfig is the configuration for driving the strips directly from a
// Raspberry Pi. The strips are chained on a single data pin.
type WS281xConfig struct {
	Pin       int `toml:"pin"`
	DMA       int `toml:"dma"`
	Frequency int `toml:"frequency"`
}

// OutputKind is the kind of output backend.
type OutputKind string

const (
	// SerialOutput sends the frames to an ESP32 over a serial port.
	SerialOutput OutputKind = "serial"
	// WS281xOutput drives the strips from the GPIO of a Raspberry Pi.
	WS281xOutput OutputKind = "ws281x"
	// DryRunOutput does nothing but log.
	DryRunOutput OutputKind = "dryrun"
)

// DefaultConfig returns the configuration of the tree as built.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in every unset field.
func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = SerialOutput
	}
	if c.Device == "" {
		c.Device = "/dev/ttyUSB0"
	}
	if c.Baud == 0 {
		c.Baud = DefaultBaud
	}
	if c.AckTimeout == 0 {
		c.AckTimeout = TOMLDuration(DefaultAckTimeout)
	}
	if c.LEDs == nil {
		n := DefaultNumLEDs
		c.LEDs = &n
	}
	if len(c.Pins) == 0 {
		c.Pins = append([]int(nil), DefaultPins...)
	}
	if c.Brightness == nil {
		b := DefaultBrightness
		c.Brightness = &b
	}
	if c.Interval == 0 {
		c.Interval = TOMLDuration(ticker.DefaultInterval)
	}
	if c.Tick == 0 {
		c.Tick = TOMLDuration(ticker.DefaultTick)
	}
	if c.WS281x.Pin == 0 {
		c.WS281x.Pin = 18
	}
	if c.WS281x.DMA == 0 {
		c.WS281x.DMA = 10
	}
	if c.WS281x.Frequency == 0 {
		c.WS281x.Frequency = 800000
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Output {
	case SerialOutput:
		if c.Device == "" {
			return errors.New("no serial device configured")
		}
		if c.Baud <= 0 {
			return fmt.Errorf("invalid baud rate %d", c.Baud)
		}
	case WS281xOutput, DryRunOutput:
	default:
		return fmt.Errorf("unknown output %q", c.Output)
	}

	if n := c.NumLEDs(); n < 0 || n > 0xFFFF {
		return fmt.Errorf("invalid number of LEDs %d", n)
	}

	if len(c.Pins) == 0 {
		return errors.New("no strips configured")
	}
	if len(c.Pins) > 0xFF {
		return fmt.Errorf("too many strips: %d", len(c.Pins))
	}

	// Two strips cannot share a channel.
	seen := make(map[int]bool, len(c.Pins))
	for _, pin := range c.Pins {
		if seen[pin] {
			return fmt.Errorf("pin %d is used by more than one strip", pin)
		}
		seen[pin] = true
	}

	if c.Brightness != nil && (*c.Brightness < 0 || *c.Brightness > 0xFF) {
		return fmt.Errorf("brightness %d is out of range [0, 255]", *c.Brightness)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("invalid change interval %s", c.Interval)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("invalid tick %s", c.Tick)
	}

	return nil
}

// NumStrips returns the number of strips configured.
func (c *Config) NumStrips() int {
	return len(c.Pins)
}

// NumLEDs returns the number of LEDs on every strip.
func (c *Config) NumLEDs() int {
	if c.LEDs == nil {
		return DefaultNumLEDs
	}
	return *c.LEDs
}

// BrightnessLevel returns the configured brightness.
func (c *Config) BrightnessLevel() led.Brightness {
	if c.Brightness == nil {
		return DefaultBrightness
	}
	return led.Brightness(*c.Brightness)
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d TOMLDuration) String() string {
	return time.Duration(d).String()
}

// ParseConfig parses a configuration from a reader. Unset fields take their
// default values.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode TOML")
	}
	config.ApplyDefaults()
	return &config, nil
}

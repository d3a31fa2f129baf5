package treeglow

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/treeglow/internal/led"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, SerialOutput, cfg.Output)
	assert.Equal(t, 4, cfg.NumStrips())
	assert.Equal(t, []int{14, 27, 26, 25}, cfg.Pins)
	assert.Equal(t, 600, cfg.NumLEDs())
	assert.Equal(t, led.Brightness(20), cfg.BrightnessLevel())
	assert.Equal(t, 3*time.Second, time.Duration(cfg.Interval))
	assert.Equal(t, 50*time.Millisecond, time.Duration(cfg.Tick))
	assert.Equal(t, led.GRB, cfg.Order)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
output = "dryrun"
leds = 150
pins = [1, 2]
brightness = 0
order = "RGB"
interval = "5s"
seed = 42

[ws281x]
pin = 12
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DryRunOutput, cfg.Output)
	assert.Equal(t, 150, cfg.NumLEDs())
	assert.Equal(t, []int{1, 2}, cfg.Pins)
	assert.Equal(t, led.Brightness(0), cfg.BrightnessLevel(), "zero brightness is kept")
	assert.Equal(t, led.RGB, cfg.Order)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Interval))
	assert.Equal(t, 50*time.Millisecond, time.Duration(cfg.Tick), "unset fields take defaults")
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 12, cfg.WS281x.Pin)
	assert.Equal(t, 10, cfg.WS281x.DMA)
}

func TestParseConfig_ZeroLEDs(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader("leds = 0\ninterval = \"1s\"\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0, cfg.NumLEDs(), "zero LEDs is kept")
	assert.Equal(t, time.Second, time.Duration(cfg.Interval))
}

func TestParseConfig_Example(t *testing.T) {
	f, err := os.Open("treeglow.example.toml")
	require.NoError(t, err)
	defer f.Close()

	cfg, err := ParseConfig(f)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`interval = "soon"`))
	assert.Error(t, err)

	_, err = ParseConfig(strings.NewReader(`leds = [`))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "unknown output", modify: func(c *Config) { c.Output = "hdmi" }, wantErr: "unknown output"},
		{name: "no device", modify: func(c *Config) { c.Device = "" }, wantErr: "no serial device"},
		{name: "no device for dry run", modify: func(c *Config) { c.Output = DryRunOutput; c.Device = "" }},
		{name: "bad baud", modify: func(c *Config) { c.Baud = -1 }, wantErr: "invalid baud rate"},
		{name: "too many LEDs", modify: func(c *Config) { c.LEDs = intPtr(70000) }, wantErr: "invalid number of LEDs"},
		{name: "no strips", modify: func(c *Config) { c.Pins = nil }, wantErr: "no strips"},
		{name: "shared pin", modify: func(c *Config) { c.Pins = []int{14, 14} }, wantErr: "pin 14"},
		{name: "brightness", modify: func(c *Config) { c.Brightness = intPtr(256) }, wantErr: "brightness 256"},
		{name: "interval", modify: func(c *Config) { c.Interval = -1 }, wantErr: "invalid change interval"},
		{name: "tick", modify: func(c *Config) { c.Tick = -1 }, wantErr: "invalid tick"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTOMLDuration(t *testing.T) {
	var d TOMLDuration
	require.NoError(t, d.UnmarshalText([]byte("3s")))
	assert.Equal(t, TOMLDuration(3*time.Second), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "3s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("3 seconds")))
}

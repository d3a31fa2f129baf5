package treeglow

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/internal/xmas"
)

type simulatedClock struct {
	now time.Duration
}

func (c *simulatedClock) Now() time.Duration    { return c.now }
func (c *simulatedClock) Sleep(d time.Duration) { c.now += d }

// recordingOutput keeps a copy of every frame and the time it was shown.
type recordingOutput struct {
	clock  *simulatedClock
	frames [][]led.LEDs
	times  []time.Duration
	levels []led.Brightness
	err    error
	onShow func(n int)
}

func (o *recordingOutput) Show(strips []led.LEDs, brightness led.Brightness) error {
	frame := make([]led.LEDs, len(strips))
	for i, s := range strips {
		frame[i] = append(led.LEDs(nil), s...)
	}
	o.frames = append(o.frames, frame)
	o.times = append(o.times, o.clock.now)
	o.levels = append(o.levels, brightness)
	if o.onShow != nil {
		o.onShow(len(o.frames))
	}
	return o.err
}

func (o *recordingOutput) Close() error { return nil }

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Output = DryRunOutput
	return cfg
}

func runDaemon(t *testing.T, cfg *Config, out *recordingOutput, frames int, opts ...Option) *Daemon {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out.onShow = func(n int) {
		if n == frames {
			cancel()
		}
	}

	opts = append([]Option{WithClock(out.clock), WithSource(xmas.NewSource(1))}, opts...)
	d, err := NewDaemon(cfg, out, slog.New(slog.DiscardHandler), opts...)
	require.NoError(t, err)

	err = d.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	return d
}

func TestDaemon_Run(t *testing.T) {
	out := &recordingOutput{clock: &simulatedClock{}}
	runDaemon(t, testConfig(), out, 3)

	require.Len(t, out.frames, 3)
	assert.Equal(t, []time.Duration{0, 3 * time.Second, 6 * time.Second}, out.times)
	assert.Equal(t, []led.Brightness{20, 20, 20}, out.levels)

	for _, frame := range out.frames {
		require.Len(t, frame, 4)
		for _, strip := range frame {
			require.Len(t, strip, 600)
			assert.Zero(t, xmas.Christmas.Count(strip).Other)
		}
	}

	assert.NotEqual(t, out.frames[0][0], out.frames[1][0])
}

func TestDaemon_ChangeBoundary(t *testing.T) {
	clock := &simulatedClock{}
	out := &recordingOutput{clock: clock}

	cfg := testConfig()
	cfg.Tick = TOMLDuration(time.Millisecond)

	runDaemon(t, cfg, out, 2)

	// The change fires on the first poll at or past the interval, never
	// before it.
	assert.Equal(t, []time.Duration{0, 3000 * time.Millisecond}, out.times)
}

func TestDaemon_EmptyStrips(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader("output = \"dryrun\"\nleds = 0\npins = [1]\n"))
	require.NoError(t, err)

	out := &recordingOutput{clock: &simulatedClock{}}
	d := runDaemon(t, cfg, out, 2)

	require.Len(t, d.Tree().Strips, 1)
	assert.Empty(t, d.Tree().Strips[0])
	require.Len(t, out.frames, 2)
	for _, frame := range out.frames {
		require.Len(t, frame, 1)
		assert.Empty(t, frame[0])
	}
}

func TestDaemon_CommitErrorsAreNotFatal(t *testing.T) {
	out := &recordingOutput{
		clock: &simulatedClock{},
		err:   errors.New("strip unplugged"),
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out.onShow = func(n int) {
		if n == 3 {
			cancel()
		}
	}

	m := NewMetrics()
	d, err := NewDaemon(testConfig(), out, logger, WithClock(out.clock), WithMetrics(m))
	require.NoError(t, err)
	require.ErrorIs(t, d.Run(ctx), context.Canceled)

	assert.Len(t, out.frames, 3)
	assert.Contains(t, logs.String(), "failed to show pattern")
	assert.Contains(t, logs.String(), "strip unplugged")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.commitErrors))
}

func TestDaemon_Logs(t *testing.T) {
	out := &recordingOutput{clock: &simulatedClock{}}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out.onShow = func(n int) {
		if n == 2 {
			cancel()
		}
	}

	d, err := NewDaemon(testConfig(), out, logger, WithClock(out.clock))
	require.NoError(t, err)
	require.ErrorIs(t, d.Run(ctx), context.Canceled)

	s := logs.String()
	assert.Contains(t, s, "leds_per_strip=600")
	assert.Contains(t, s, "pins=14,27,26,25")
	assert.Contains(t, s, "brightness=20/255")
	assert.Contains(t, s, "brightness_percent=7")
	assert.Contains(t, s, "interval=3s")
	assert.Contains(t, s, `colors="80% green (#008000), 15% red (#ff0000), 5% blue (#0000ff)"`)
	assert.Contains(t, s, "christmas tree effect started")
	assert.Contains(t, s, "changing pattern")
	assert.Contains(t, s, "uptime_seconds=3")
}

func TestDaemon_Metrics(t *testing.T) {
	out := &recordingOutput{clock: &simulatedClock{}}

	m := NewMetrics()
	r := prometheus.NewPedanticRegistry()
	r.MustRegister(m)

	runDaemon(t, testConfig(), out, 3, WithMetrics(m))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.changes))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.commitErrors))
	assert.Equal(t, 12, testutil.CollectAndCount(m.pixels))

	last := out.frames[len(out.frames)-1]
	want := xmas.Christmas.Count(last[2])
	assert.Equal(t, float64(want.Counts[1]), testutil.ToFloat64(m.pixels.WithLabelValues("2", "red")))

	count, err := testutil.GatherAndCount(r,
		"treeglow_pattern_changes_total",
		"treeglow_commit_errors_total",
		"treeglow_commit_duration_seconds",
		"treeglow_pixels",
	)
	require.NoError(t, err)
	assert.Equal(t, 15, count)
}

func TestNewDaemon_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Pins = nil

	_, err := NewDaemon(cfg, &recordingOutput{}, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestOpenOutput(t *testing.T) {
	cfg := testConfig()
	out, err := OpenOutput(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.NoError(t, out.Show([]led.LEDs{led.NewLEDs(3)}, 20))
	assert.NoError(t, out.Close())

	cfg.Output = "hdmi"
	_, err = OpenOutput(cfg, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

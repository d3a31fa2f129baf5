package treeglow

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/internal/ticker"
	"libdb.so/treeglow/internal/xmas"
)

// Output is the device that displays the strips.
type Output interface {
	// Show commits every strip to the LEDs at once. The strips hold unscaled
	// colors; the output applies the brightness.
	Show(strips []led.LEDs, brightness led.Brightness) error
	// Close releases the device.
	Close() error
}

// Daemon is the main treeglow daemon. It redraws the tree on every change
// interval and pushes it to the output.
type Daemon struct {
	cfg     *Config
	logger  *slog.Logger
	out     Output
	clock   ticker.Clock
	rng     xmas.Source
	metrics *Metrics

	tree *xmas.Tree
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithClock replaces the system clock.
func WithClock(clock ticker.Clock) Option {
	return func(d *Daemon) { d.clock = clock }
}

// WithSource replaces the random source.
func WithSource(rng xmas.Source) Option {
	return func(d *Daemon) { d.rng = rng }
}

// WithMetrics makes the daemon record its metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(d *Daemon) { d.metrics = m }
}

// NewDaemon creates a new treeglow daemon.
func NewDaemon(cfg *Config, out Output, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	d := &Daemon{
		cfg:    cfg,
		logger: logger,
		out:    out,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.clock == nil {
		d.clock = ticker.SystemClock()
	}
	if d.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		d.rng = xmas.NewSource(seed)
	}

	d.tree = xmas.NewTree(cfg.NumStrips(), cfg.NumLEDs(), cfg.BrightnessLevel(), d.rng)
	return d, nil
}

// Tree returns the strips the daemon draws into.
func (d *Daemon) Tree() *xmas.Tree {
	return d.tree
}

// Run starts the daemon. It blocks until the given context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	d.logBanner()

	d.tree.Randomize()
	d.commit()

	loop := ticker.Loop{
		Clock:     d.clock,
		Scheduler: ticker.NewScheduler(time.Duration(d.cfg.Interval), d.clock.Now()),
		Tick:      time.Duration(d.cfg.Tick),
		OnChange:  d.change,
	}

	d.logger.Info("christmas tree effect started")
	return loop.Run(ctx)
}

func (d *Daemon) change(now time.Duration) {
	d.logger.Info("changing pattern")

	d.tree.Randomize()
	d.metrics.observeChange()
	d.commit()

	d.logger.Info("pattern changed", "uptime_seconds", int64(now/time.Second))
}

// commit pushes the tree to the output. Failures are logged and otherwise
// ignored; the next change tries again.
func (d *Daemon) commit() {
	start := time.Now()
	err := d.out.Show(d.tree.Strips, d.tree.Brightness)
	d.metrics.observeCommit(time.Since(start), err)
	d.metrics.observePattern(d.tree.Distribution(), d.tree.Count())

	if err != nil {
		d.logger.Warn(
			"failed to show pattern",
			"error", err)
	}
}

func (d *Daemon) logBanner() {
	pins := make([]string, len(d.cfg.Pins))
	for i, pin := range d.cfg.Pins {
		pins[i] = strconv.Itoa(pin)
	}

	brightness := d.cfg.BrightnessLevel()

	d.logger.Info(
		"christmas tree effect",
		"strips", d.cfg.NumStrips(),
		"leds_per_strip", d.cfg.NumLEDs(),
		"pins", strings.Join(pins, ","),
		"brightness", strconv.Itoa(int(brightness))+"/255",
		"brightness_percent", brightness.Percent(),
		"colors", d.tree.Distribution().String(),
		"interval", time.Duration(d.cfg.Interval),
		"output", d.cfg.Output)
}

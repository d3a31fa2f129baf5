package ledout

import (
	"log/slog"

	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/internal/xmas"
)

// DryRun is an output that displays nothing. It logs what it would show.
type DryRun struct {
	logger *slog.Logger
	frames int
}

// NewDryRun creates a new dry-run output.
func NewDryRun(logger *slog.Logger) *DryRun {
	return &DryRun{logger: logger}
}

// Show logs the color histogram of every strip.
func (d *DryRun) Show(strips []led.LEDs, brightness led.Brightness) error {
	d.frames++
	for i, strip := range strips {
		h := xmas.Christmas.Count(strip)

		attrs := []any{
			"frame", d.frames,
			"strip", i,
			"brightness", int(brightness),
		}
		for j, n := range h.Counts {
			attrs = append(attrs, xmas.Christmas[j].Name, n)
		}
		if h.Other > 0 {
			attrs = append(attrs, "other", h.Other)
		}
		if len(strip) > 0 {
			attrs = append(attrs, "first", brightness.Scale(strip[0]).String())
		}

		d.logger.Debug("dry run frame", attrs...)
	}
	return nil
}

// Frames returns the number of frames shown so far.
func (d *DryRun) Frames() int {
	return d.frames
}

// Close does nothing.
func (d *DryRun) Close() error {
	return nil
}

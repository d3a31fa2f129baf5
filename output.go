package treeglow

import (
	"fmt"
	"log/slog"
	"time"

	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/internal/ledout"
)

var (
	_ Output = (*ledout.Serial)(nil)
	_ Output = (*ledout.WS281x)(nil)
	_ Output = (*ledout.DryRun)(nil)
)

// OpenOutput opens the output backend selected by the configuration.
func OpenOutput(cfg *Config, logger *slog.Logger) (Output, error) {
	switch cfg.Output {
	case SerialOutput:
		s, err := ledout.OpenSerial(cfg.Device, cfg.Baud, ledout.SerialOptions{
			NumStrips:  cfg.NumStrips(),
			NumLEDs:    cfg.NumLEDs(),
			Order:      cfg.Order,
			AckTimeout: time.Duration(cfg.AckTimeout),
		}, logger)
		if err != nil {
			return nil, err
		}
		return s, nil

	case WS281xOutput:
		w, err := ledout.OpenWS281x(ledout.WS281xOptions{
			Pin:       cfg.WS281x.Pin,
			DMA:       cfg.WS281x.DMA,
			Frequency: cfg.WS281x.Frequency,
			NumStrips: cfg.NumStrips(),
			NumLEDs:   cfg.NumLEDs(),
			GRB:       cfg.Order == led.GRB,
		})
		if err != nil {
			return nil, err
		}
		return w, nil

	case DryRunOutput:
		return ledout.NewDryRun(logger), nil

	default:
		return nil, fmt.Errorf("unknown output %q", cfg.Output)
	}
}

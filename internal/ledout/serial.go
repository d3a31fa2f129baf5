// Package ledout contains the output backends that display the strips.
package ledout

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/ledserial"
)

// SerialOptions describes the strips behind a serial controller.
type SerialOptions struct {
	NumStrips int
	NumLEDs   int
	Order     led.ColorOrder
	// AckTimeout bounds the wait for every acknowledgement.
	AckTimeout time.Duration
}

// Serial drives the strips through a controller speaking the ledserial
// protocol, usually an ESP32 running the ledserial firmware.
type Serial struct {
	port   io.ReadWriteCloser
	opts   SerialOptions
	logger *slog.Logger

	errg    errgroup.Group
	acks    chan ledserial.AckPacket
	ctrlErr chan error
	done    chan struct{}
	readErr error
	closed  atomic.Bool

	pix        []uint8
	brightness int // -1 until sent
}

// OpenSerial opens the serial device and initializes the controller.
func OpenSerial(device string, baud int, opts SerialOptions, logger *slog.Logger) (*Serial, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}

	s, err := NewSerial(port, opts, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewSerial initializes the controller on the other end of port. The port is
// closed if initialization fails.
func NewSerial(port io.ReadWriteCloser, opts SerialOptions, logger *slog.Logger) (*Serial, error) {
	if opts.AckTimeout <= 0 {
		opts.AckTimeout = 2 * time.Second
	}

	s := &Serial{
		port:       port,
		opts:       opts,
		logger:     logger,
		acks:       make(chan ledserial.AckPacket, 8),
		ctrlErr:    make(chan error, 1),
		done:       make(chan struct{}),
		pix:        make([]uint8, 3*opts.NumLEDs),
		brightness: -1,
	}

	s.errg.Go(func() error {
		defer close(s.done)
		s.readErr = s.readPackets()
		return s.readErr
	})

	logger.Debug(
		"initializing controller",
		"strips", opts.NumStrips,
		"leds", opts.NumLEDs)

	err := s.send(ledserial.InitializePacket{
		NumStrips: uint8(opts.NumStrips),
		NumLEDs:   uint16(opts.NumLEDs),
	})
	if err != nil {
		s.shutdown()
		return nil, errors.Wrap(err, "failed to initialize controller")
	}

	return s, nil
}

// Show sends every strip to the controller and tells it to display them.
func (s *Serial) Show(strips []led.LEDs, brightness led.Brightness) error {
	if len(strips) > s.opts.NumStrips {
		return errors.Errorf("controller has %d strips, got %d", s.opts.NumStrips, len(strips))
	}

	if int(brightness) != s.brightness {
		if err := s.send(ledserial.BrightnessPacket{Level: uint8(brightness)}); err != nil {
			return errors.Wrap(err, "failed to set brightness")
		}
		s.brightness = int(brightness)
	}

	for i, strip := range strips {
		if len(strip) != s.opts.NumLEDs {
			return errors.Errorf("strip %d has %d LEDs, want %d", i, len(strip), s.opts.NumLEDs)
		}
		s.pix = strip.AsPixels(s.pix, s.opts.Order, led.FullBrightness)
		if err := s.send(ledserial.SetPacket{Strip: uint8(i), Pix: s.pix}); err != nil {
			return errors.Wrapf(err, "failed to set strip %d", i)
		}
	}

	if err := s.send(ledserial.ShowPacket{}); err != nil {
		return errors.Wrap(err, "failed to show strips")
	}

	return nil
}

// Clear turns every LED off.
func (s *Serial) Clear() error {
	return s.send(ledserial.ClearPacket{})
}

// Close turns the LEDs off, closes the serial port and waits for the reader
// to stop.
func (s *Serial) Close() error {
	if s.closed.Load() {
		return nil
	}

	select {
	case <-s.done:
	default:
		if err := s.Clear(); err != nil {
			s.logger.Warn(
				"failed to clear LEDs",
				"error", err)
		}
	}

	return s.shutdown()
}

func (s *Serial) shutdown() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.port.Close()
	s.errg.Wait()
	if err != nil {
		return errors.Wrap(err, "failed to close serial port")
	}
	return nil
}

// send writes the packet and waits until the controller acknowledges it.
// Acks for other packet types are stale replies to earlier packets whose wait
// timed out and are skipped.
func (s *Serial) send(p ledserial.IncomingPacket) error {
	s.logger.Debug(
		"writing packet",
		"type", p.Type())

	s.drain()

	if err := ledserial.WriteIncomingPacket(s.port, p); err != nil {
		return errors.Wrap(err, "failed to write packet")
	}

	timeout := time.NewTimer(s.opts.AckTimeout)
	defer timeout.Stop()

	for {
		select {
		case ack := <-s.acks:
			if ack.IncomingPacketType != p.Type() {
				s.logger.Debug(
					"skipping stale ack",
					"acked_for", ack.IncomingPacketType,
					"want", p.Type())
				continue
			}
			return nil
		case err := <-s.ctrlErr:
			return err
		case <-s.done:
			if s.readErr != nil {
				return s.readErr
			}
			return errors.New("serial port closed")
		case <-timeout.C:
			return errors.Errorf("timed out waiting for %s ack", p.Type())
		}
	}
}

// drain discards acks and errors left over from earlier packets.
func (s *Serial) drain() {
	for {
		select {
		case <-s.acks:
		case <-s.ctrlErr:
		default:
			return
		}
	}
}

func (s *Serial) readPackets() error {
	for {
		p, err := ledserial.ReadOutgoingPacket(s.port)
		if s.closed.Load() {
			return nil
		}
		if err != nil {
			// The port never times out, so nothing read at all means the
			// other end is gone.
			if errors.Is(err, io.EOF) {
				return errors.New("controller closed the connection")
			}
			return errors.Wrap(err, "failed to read packet")
		}

		s.logger.Debug(
			"received packet from controller",
			"type", p.Type())

		switch p := p.(type) {
		case ledserial.AckPacket:
			select {
			case s.acks <- p:
			default:
				s.logger.Warn(
					"dropping unexpected ack",
					"acked_for", p.IncomingPacketType)
			}

		case ledserial.ErrorPacket:
			s.logger.Warn(
				"received error packet from controller",
				"message", p.Message)
			select {
			case s.ctrlErr <- errors.Errorf("controller reported error: %s", p.Message):
			default:
			}

		case ledserial.PanicPacket:
			s.logger.Error("controller unrecoverably panicked")
			return errors.New("controller panicked")

		case ledserial.LogPacket:
			s.logger.Info(
				"received log packet from controller",
				"message", p.Message)

		default:
			return errors.Errorf("received unknown packet from controller: %s", p.Type())
		}
	}
}

package main

import (
	"fmt"

	"libdb.so/treeglow/esp32/strip"
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/ledserial"
)

// Device stores the current state of the device.
type Device struct {
	serial SerialReadWriter
	out    *strip.Output

	numLEDs    uint16
	brightness led.Brightness
	staged     [][]uint8 // GRB bytes per strip, unscaled
	scratch    []uint8
	readBuf    []uint8
}

// NewDevice creates a new device.
func NewDevice(serial SerialReadWriter, out *strip.Output) *Device {
	return &Device{
		serial:     serial,
		out:        out,
		brightness: led.FullBrightness,
	}
}

// Run runs the device loop forever.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			d.logError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
			continue
		}

		d.sendPacket(ledserial.AckPacket{
			IncomingPacketType: p.Type(),
		})
	}
}

func (d *Device) log(msg string) {
	d.sendPacket(ledserial.LogPacket{Message: msg})
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	statusOn()
	defer statusOff()

	return ledserial.ReadIncomingPacket(d.serial, ledserial.ReadContext{
		NumLEDs:   d.numLEDs,
		LEDBuffer: d.readBuf,
	})
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if int(p.NumStrips) > d.out.NumStrips() {
			return fmt.Errorf("%d strips requested, only %d wired", p.NumStrips, d.out.NumStrips())
		}
		d.numLEDs = p.NumLEDs
		d.staged = make([][]uint8, p.NumStrips)
		for i := range d.staged {
			d.staged[i] = make([]uint8, 3*int(p.NumLEDs))
		}
		d.scratch = make([]uint8, 3*int(p.NumLEDs))
		d.readBuf = make([]uint8, 3*int(p.NumLEDs))
		d.log(fmt.Sprintf("initialized %d strips of %d LEDs", p.NumStrips, p.NumLEDs))
		d.flush()

	case ledserial.ClearPacket:
		for _, s := range d.staged {
			clear(s)
		}
		d.flush()

	case ledserial.SetPacket:
		if int(p.Strip) >= len(d.staged) {
			return fmt.Errorf("strip %d out of range", p.Strip)
		}
		copy(d.staged[p.Strip], p.Pix)

	case ledserial.BrightnessPacket:
		d.brightness = led.Brightness(p.Level)

	case ledserial.ShowPacket:
		d.flush()

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return nil
}

// flush writes every staged strip to the LEDs.
func (d *Device) flush() {
	for i, s := range d.staged {
		for j, b := range s {
			d.scratch[j] = d.brightness.ScaleByte(b)
		}
		d.out.WriteRaw(i, d.scratch)
	}
}

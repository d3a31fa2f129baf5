// Package esp32 describes the tree as wired to the ESP32.
//
// Wiring: the DIN of each strip goes to its GPIO, every GND is tied to both
// the ESP32 GND and the power supply GND, and the strips take 5V from the
// external supply.
package esp32

import (
	"libdb.so/treeglow/internal/led"
	"libdb.so/treeglow/internal/ticker"
)

var (
	// Pins are the GPIO numbers of the strips' data lines, in strip order.
	Pins = [4]uint8{14, 27, 26, 25}
	// NumLEDs is the number of LEDs on every strip.
	NumLEDs = 600
	// Brightness is kept low; high brightness draws a lot of current.
	Brightness led.Brightness = 20
	// Interval is the time between pattern changes.
	Interval = ticker.DefaultInterval
	// Tick is the time the main loop sleeps between polls.
	Tick = ticker.DefaultTick
)

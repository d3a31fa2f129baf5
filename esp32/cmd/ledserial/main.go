// Command ledserial receives frames from the treeglow daemon over the USB
// serial port and displays them on the four strips.
package main

import (
	"machine"

	"libdb.so/treeglow/esp32"
	"libdb.so/treeglow/esp32/strip"
)

func main() {
	out := strip.New(strip.Pins(esp32.Pins[:]))
	NewDevice(WrapSerial(machine.Serial), out).Run()
}

package main

import "machine"

// The on-board LED lights up while the device waits for a packet.
var statusLED = machine.LED
var statusLEDInitialized bool

func initStatusLED() {
	if !statusLEDInitialized {
		statusLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
		statusLEDInitialized = true
	}
}

func statusOn() {
	initStatusLED()
	statusLED.High()
}

func statusOff() {
	initStatusLED()
	statusLED.Low()
}

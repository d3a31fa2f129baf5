// Command xmastree runs the Christmas tree effect on the ESP32 by itself:
// 80% green, 15% red and 5% blue, redrawn every three seconds.
package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"machine"
	"time"

	"libdb.so/treeglow/esp32"
	"libdb.so/treeglow/esp32/strip"
	"libdb.so/treeglow/internal/ticker"
	"libdb.so/treeglow/internal/xmas"
)

func main() {
	time.Sleep(time.Second)

	printf("======================================\n")
	printf("Christmas Tree Effect (%d Strips)\n", len(esp32.Pins))
	printf("======================================\n")
	printf("LED Count per strip: %d\n", esp32.NumLEDs)
	printf("Pins: GPIO %d, %d, %d, %d\n", esp32.Pins[0], esp32.Pins[1], esp32.Pins[2], esp32.Pins[3])
	printf("Brightness: %d/255 (%d%%)\n", esp32.Brightness, esp32.Brightness.Percent())
	printf("Colors: 80%% Green, 15%% Red, 5%% Blue\n")
	printf("Pattern changes every %s\n", esp32.Interval)
	printf("======================================\n")

	out := strip.New(strip.Pins(esp32.Pins[:]))
	tree := xmas.NewTree(out.NumStrips(), esp32.NumLEDs, esp32.Brightness, xmas.NewSource(seed()))

	tree.Randomize()
	out.Show(tree.Strips, tree.Brightness)

	clock := ticker.SystemClock()
	loop := ticker.Loop{
		Clock:     clock,
		Scheduler: ticker.NewScheduler(esp32.Interval, clock.Now()),
		Tick:      esp32.Tick,
		OnChange: func(now time.Duration) {
			printf("Changing pattern...\n")
			tree.Randomize()
			out.Show(tree.Strips, tree.Brightness)
			printf("Uptime: %d seconds\n", int64(now/time.Second))
		},
	}

	printf("Christmas tree effect started!\n")
	loop.Run(context.Background())
}

// seed reads a seed from the hardware random number generator, falling back
// to the boot time.
func seed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

func printf(format string, args ...any) {
	io.WriteString(machine.Serial, fmt.Sprintf(format, args...))
}

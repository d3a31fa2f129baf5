// Package xmas implements the Christmas tree pixel randomizer.
package xmas

import (
	"fmt"
	"math/rand"
	"strings"

	"libdb.so/treeglow/internal/led"
)

// Source is a source of uniformly distributed integers. *rand.Rand
// implements it.
type Source interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

var _ Source = (*rand.Rand)(nil)

// NewSource returns a pseudo-random Source seeded with the given seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Scale is the range of the integer drawn for every pixel.
const Scale = 100

// Outcome is one possible color of a pixel.
type Outcome struct {
	// Below is the exclusive upper bound of the draw for this outcome. The
	// lower bound is the previous outcome's bound.
	Below int
	Color led.RGBColor
	Name  string
}

// Distribution is a categorical distribution of pixel colors. The outcomes
// are ordered by their bounds and the last bound is Scale.
type Distribution []Outcome

// Christmas is the tree distribution: 80% green, 15% red and 5% blue.
var Christmas = Distribution{
	{Below: 80, Color: led.Green, Name: "green"},
	{Below: 95, Color: led.Red, Name: "red"},
	{Below: Scale, Color: led.Blue, Name: "blue"},
}

// Percent returns the probability of the i-th outcome in percent.
func (d Distribution) Percent(i int) int {
	lower := 0
	if i > 0 {
		lower = d[i-1].Below
	}
	return (d[i].Below - lower) * 100 / Scale
}

// String describes the distribution, e.g. "80% green (#008000), 20% red
// (#ff0000)".
func (d Distribution) String() string {
	parts := make([]string, len(d))
	for i, o := range d {
		parts[i] = fmt.Sprintf("%d%% %s (%s)", d.Percent(i), o.Name, o.Color)
	}
	return strings.Join(parts, ", ")
}

// Pick maps a draw in [0, Scale) to its outcome index.
func (d Distribution) Pick(v int) int {
	for i, o := range d {
		if v < o.Below {
			return i
		}
	}
	return len(d) - 1
}

// Randomize overwrites every pixel of the strip with an independently drawn
// color.
func (d Distribution) Randomize(strip led.LEDs, rng Source) {
	for i := range strip {
		strip[i] = d[d.Pick(rng.Intn(Scale))].Color
	}
}

// Randomize randomizes the strip using the Christmas distribution.
func Randomize(strip led.LEDs, rng Source) {
	Christmas.Randomize(strip, rng)
}

// Histogram counts the pixels of each outcome, indexed like the
// distribution. Pixels that match no outcome are counted in Other.
type Histogram struct {
	Counts []int
	Other  int
}

// Count tallies the colors of the strip.
func (d Distribution) Count(strip led.LEDs) Histogram {
	h := Histogram{Counts: make([]int, len(d))}
pixels:
	for _, c := range strip {
		for i, o := range d {
			if c == o.Color {
				h.Counts[i]++
				continue pixels
			}
		}
		h.Other++
	}
	return h
}

// Total returns the number of pixels counted.
func (h Histogram) Total() int {
	total := h.Other
	for _, n := range h.Counts {
		total += n
	}
	return total
}

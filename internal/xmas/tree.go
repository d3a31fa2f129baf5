package xmas

import "libdb.so/treeglow/internal/led"

// Tree holds the strips of the tree and everything needed to redraw them.
type Tree struct {
	// Strips are the pixel buffers, one per output channel. They are
	// allocated once and redrawn in place.
	Strips []led.LEDs
	// Brightness is the global brightness applied when committing.
	Brightness led.Brightness

	dist Distribution
	rng  Source
}

// NewTree allocates numStrips strips of numLEDs black pixels each.
func NewTree(numStrips, numLEDs int, brightness led.Brightness, rng Source) *Tree {
	strips := make([]led.LEDs, numStrips)
	for i := range strips {
		strips[i] = led.NewLEDs(numLEDs)
	}

	return &Tree{
		Strips:     strips,
		Brightness: brightness,
		dist:       Christmas,
		rng:        rng,
	}
}

// Distribution returns the distribution the tree is drawn from.
func (t *Tree) Distribution() Distribution {
	return t.dist
}

// Randomize redraws every strip.
func (t *Tree) Randomize() {
	for _, strip := range t.Strips {
		t.dist.Randomize(strip, t.rng)
	}
}

// Count returns the color histogram of every strip.
func (t *Tree) Count() []Histogram {
	hs := make([]Histogram, len(t.Strips))
	for i, strip := range t.Strips {
		hs[i] = t.dist.Count(strip)
	}
	return hs
}

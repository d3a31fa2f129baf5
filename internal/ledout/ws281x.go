package ledout

// WS281xOptions describes strips driven directly by a Raspberry Pi. All
// strips are chained on one data pin and rendered end to end.
type WS281xOptions struct {
	Pin       int
	DMA       int
	Frequency int
	NumStrips int
	NumLEDs   int
	// GRB is true for strips that take green first, like the WS2812B.
	GRB bool
}

// TotalLEDs returns the length of the chain.
func (o WS281xOptions) TotalLEDs() int {
	return o.NumStrips * o.NumLEDs
}

//go:build !ws281x

package ledout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenWS281x_Unavailable(t *testing.T) {
	_, err := OpenWS281x(WS281xOptions{Pin: 18, NumStrips: 4, NumLEDs: 600})
	assert.Error(t, err)
}

package edgeid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tilerouter/pkg/edgeid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		z, x, y, edgeIndex int
	}{
		{14, 100, 200, 0},
		{14, 8191, 8191, 3},
		{0, 0, 0, 0},
		{20, 524287, 524287, 524287},
	}
	for _, c := range cases {
		id := edgeid.Encode(c.z, c.x, c.y, c.edgeIndex)
		z, x, y, idx := edgeid.Decode(id)
		assert.Equal(t, c.z, z)
		assert.Equal(t, c.x, x)
		assert.Equal(t, c.y, y)
		assert.Equal(t, c.edgeIndex, idx)
	}
}

func TestEncodeDistinguishesTiles(t *testing.T) {
	a := edgeid.Encode(14, 100, 200, 0)
	b := edgeid.Encode(14, 100, 201, 0)
	assert.NotEqual(t, a, b)
}

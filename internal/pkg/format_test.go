package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytesThresholds(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "     0 B "},
		{1023, "  1023 B "},
		{1024, "   1.0 KB"},
		{1536, "   1.5 KB"},
		{1048575, "1024.0 KB"},
		{1048576, "   1.0 MB"},
		{1073741823, "1024.0 MB"},
		{1073741824, "  1.00 GB"},
		{5 * 1073741824, "  5.00 GB"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatBytes(tc.in), "bytes=%d", tc.in)
	}
}

func TestFormatBytesFixedWidth(t *testing.T) {
	for _, b := range []uint64{0, 7, 999, 1023, 1024, 40000, 1048575, 1048576, 900 * 1048576, 1073741824} {
		out := FormatBytes(b)
		assert.Len(t, out, 9, "bytes=%d", b)
		assert.Equal(t, byte(' '), out[6], "numeric field must be exactly 6 chars for %d", b)
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "512 B/s", FormatRate(512))
	assert.Equal(t, "1.5 KB/s", FormatRate(1536))
	assert.Equal(t, "2.0 MB/s", FormatRate(2*1048576))
	assert.Equal(t, "3.00 GB/s", FormatRate(3*1073741824))
}

func TestFormatSpeed(t *testing.T) {
	assert.Equal(t, "   1.0 KB/s", FormatSpeed(1024))
}

package speed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{0, 0, 0}, h.Values())

	for _, v := range []float64{0.1, 0.2, 0.3, 0.4} {
		h.Push(v)
	}
	assert.Equal(t, []float64{0.2, 0.3, 0.4}, h.Values())
	assert.Equal(t, 3, h.Len())
}

func TestHistoryValuesIsACopy(t *testing.T) {
	h := NewHistory(2)
	h.Push(0.5)

	v := h.Values()
	v[0] = 9
	assert.Equal(t, []float64{0, 0.5}, h.Values())
}

func TestHistoryInvalidSize(t *testing.T) {
	assert.Equal(t, DefaultHistorySize, NewHistory(0).Len())
}

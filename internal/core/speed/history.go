package speed

// History is a fixed-capacity FIFO of normalized speeds. It starts full of
// zeros so charts always have the same number of points.
type History struct {
	values []float64
	head   int
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{values: make([]float64, size)}
}

// Push appends v and evicts the oldest entry.
func (h *History) Push(v float64) {
	h.values[h.head] = v
	h.head = (h.head + 1) % len(h.values)
}

// Values returns a copy ordered from oldest to newest.
func (h *History) Values() []float64 {
	out := make([]float64, 0, len(h.values))
	out = append(out, h.values[h.head:]...)
	out = append(out, h.values[:h.head]...)
	return out
}

func (h *History) Len() int {
	return len(h.values)
}

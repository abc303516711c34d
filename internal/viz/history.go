package viz

// History is a fixed-capacity FIFO of samples. Pushing into a full history
// evicts the oldest sample in O(1).
type History struct {
	buf   []float64
	start int
	n     int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]float64, capacity)}
}

func (h *History) Push(v float64) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = v
		h.n++
		return
	}
	h.buf[h.start] = v
	h.start = (h.start + 1) % len(h.buf)
}

func (h *History) Len() int { return h.n }
func (h *History) Cap() int { return len(h.buf) }

// At returns the i-th sample, oldest first.
func (h *History) At(i int) float64 {
	return h.buf[(h.start+i)%len(h.buf)]
}

func (h *History) Reset() {
	h.start = 0
	h.n = 0
}

// Values copies the samples out, oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, h.n)
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}

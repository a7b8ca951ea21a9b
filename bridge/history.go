package bridge

import (
	"sync"

	"github.com/jsphweid/mpusynth/model"
)

// History is a fixed-length window of the latest vectors. It starts full
// of zeros so a plot has a constant width.
type History struct {
	mu   sync.Mutex
	buf  []model.Vector3
	next int
}

func NewHistory(n int) *History {
	return &History{buf: make([]model.Vector3, n)}
}

func (h *History) Push(v model.Vector3) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = v
	h.next = (h.next + 1) % len(h.buf)
}

// Snapshot returns the window oldest first.
func (h *History) Snapshot() []model.Vector3 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.Vector3, 0, len(h.buf))
	out = append(out, h.buf[h.next:]...)
	return append(out, h.buf[:h.next]...)
}

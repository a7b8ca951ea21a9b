//go:build !tinygo

package led

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.bug.st/serial"
)

// SerialRenderer sends frames to a microcontroller that owns the strips.
// Both strips may share one SerialRenderer.
type SerialRenderer struct {
	w  io.WriteCloser
	mu sync.Mutex
}

func NewSerialRenderer(w io.WriteCloser) *SerialRenderer {
	return &SerialRenderer{w: w}
}

// OpenSerialRenderer opens the named serial device at the given baud rate.
func OpenSerialRenderer(name string, baud int) (*SerialRenderer, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open led port %s: %w", name, err)
	}
	slog.Info("led: port opened", "device", name, "baud", baud)
	return NewSerialRenderer(p), nil
}

func (r *SerialRenderer) Show(s *Strip) error {
	data, err := EncodeFrame(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("led frame for %s: %w", s.Name, err)
	}
	slog.Debug("led: frame sent", "strip", s.Name, "bytes", len(data))
	return nil
}

func (r *SerialRenderer) Close() error {
	return r.w.Close()
}

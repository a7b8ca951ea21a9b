package led

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Renderer makes a strip's pixel buffer visible.
type Renderer interface {
	Show(s *Strip) error
}

// Discard drops every frame.
type Discard struct{}

func (Discard) Show(*Strip) error { return nil }

// TerminalRenderer draws one line of truecolour blocks per frame.
type TerminalRenderer struct {
	W  io.Writer
	mu sync.Mutex
}

func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{W: w}
}

func (t *TerminalRenderer) Show(s *Strip) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s ", s.Name)
	for _, p := range s.Pixels {
		fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm \x1b[0m", p.R, p.G, p.B)
	}
	b.WriteByte('\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.W, b.String())
	return err
}

const (
	SOF0          = 0xAA
	SOF1          = 0x55
	CmdShowPixels = 0x20

	// LEN is one byte and counts CMD, strip id, pixel count and RGB bytes.
	MaxFramePixels = (255 - 3) / 3
)

var ErrStripTooLong = errors.New("strip too long for one frame")

// EncodeFrame builds the on-wire representation of a strip:
//
//	[SOF0][SOF1][LEN][CMD][stripID][count][R G B ...][CKS]
//
// CKS is the XOR of LEN, CMD and every payload byte.
func EncodeFrame(s *Strip) ([]byte, error) {
	n := s.Len()
	if n > MaxFramePixels {
		return nil, fmt.Errorf("%w: %d pixels", ErrStripTooLong, n)
	}
	payload := make([]byte, 0, 2+3*n)
	payload = append(payload, s.ID, byte(n))
	for _, p := range s.Pixels {
		payload = append(payload, p.R, p.G, p.B)
	}

	length := byte(len(payload) + 1)
	cks := length ^ CmdShowPixels
	for _, b := range payload {
		cks ^= b
	}

	out := []byte{SOF0, SOF1, length, CmdShowPixels}
	out = append(out, payload...)
	out = append(out, cks)
	return out, nil
}

// Package led drives the addressable LED strips that light up with each
// voice.
package led

import "image/color"

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.RGBA{R: 255, A: 255}
	Off   = color.RGBA{A: 255}
)

// Strip is the pixel buffer of one strip. Nothing is visible until a
// Renderer shows it.
type Strip struct {
	ID     byte
	Name   string
	Pixels []color.RGBA
}

func NewStrip(id byte, name string, n int) *Strip {
	if n < 0 {
		n = 0
	}
	s := &Strip{ID: id, Name: name, Pixels: make([]color.RGBA, n)}
	s.Clear()
	return s
}

func (s *Strip) Len() int {
	return len(s.Pixels)
}

// SetPixel ignores indices outside the strip.
func (s *Strip) SetPixel(i int, c color.RGBA) {
	if i < 0 || i >= len(s.Pixels) {
		return
	}
	s.Pixels[i] = c
}

// Fill sets count pixels from first. A count of zero fills to the end.
func (s *Strip) Fill(c color.RGBA, first, count int) {
	end := len(s.Pixels)
	if count > 0 && first+count < end {
		end = first + count
	}
	for i := first; i < end; i++ {
		s.SetPixel(i, c)
	}
}

func (s *Strip) Clear() {
	s.Fill(Off, 0, 0)
}

// Rainbow spreads reps hue cycles along the strip starting at firstHue.
// Negative reps run the wheel backwards.
func (s *Strip) Rainbow(firstHue uint16, reps int8, sat, bright uint8, gammify bool) {
	n := len(s.Pixels)
	for i := 0; i < n; i++ {
		hue := uint16(int(firstHue) + (i*int(reps)*65536)/n)
		c := ColorHSV(hue, sat, bright)
		if gammify {
			c = Gamma32(c)
		}
		s.SetPixel(i, Unpack(c))
	}
}

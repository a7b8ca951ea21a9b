package led

import (
	"image/color"
	"math"
)

// ColorHSV converts a 16-bit hue wheel position, saturation and value into a
// packed 0xRRGGBB colour, using integer arithmetic so results match the
// strips' firmware.
func ColorHSV(hue uint16, sat, val uint8) uint32 {
	var r, g, b uint32
	h := (uint32(hue)*1530 + 32768) / 65536

	switch {
	case h < 510:
		b = 0
		if h < 255 {
			r, g = 255, h
		} else {
			r, g = 510-h, 255
		}
	case h < 1020:
		r = 0
		if h < 765 {
			g, b = 255, h-510
		} else {
			g, b = 1020-h, 255
		}
	case h < 1530:
		g = 0
		if h < 1275 {
			r, b = h-1020, 255
		} else {
			r, b = 255, 1530-h
		}
	default:
		r, g, b = 255, 0, 0
	}

	v1 := 1 + uint32(val)
	s1 := 1 + uint32(sat)
	s2 := 255 - uint32(sat)
	return (((((r*s1)>>8)+s2)*v1)&0xff00)<<8 |
		(((((g*s1)>>8)+s2)*v1)&0xff00) |
		(((((b*s1)>>8)+s2)*v1)>>8)
}

const gamma = 2.6

var gammaTable = func() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = uint8(math.Round(math.Pow(float64(i)/255, gamma) * 255))
	}
	return t
}()

func Gamma8(v uint8) uint8 {
	return gammaTable[v]
}

// Gamma32 applies Gamma8 to each channel of a packed colour.
func Gamma32(c uint32) uint32 {
	r := uint32(Gamma8(uint8(c >> 16)))
	g := uint32(Gamma8(uint8(c >> 8)))
	b := uint32(Gamma8(uint8(c)))
	return r<<16 | g<<8 | b
}

func Pack(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func Unpack(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
}

func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

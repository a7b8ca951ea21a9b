// Package scale holds the fixed pitch tables the voices play from.
package scale

import (
	"math"

	"github.com/jsphweid/mpusynth/model"
)

const (
	NumOctaves = 6
	NumPitches = 8
)

// Table maps (octave, pitch) to a frequency in Hz. Pitch 7 is silence (0 Hz).
type Table [NumOctaves][NumPitches]int

// BbMajor is the Bb major scale over octaves 1..6. Each row starts on the
// octave's A# and ends on its A.
var BbMajor = Table{
	{58, 33, 37, 39, 44, 49, 55, 0},
	{117, 65, 73, 78, 87, 98, 110, 0},
	{233, 131, 147, 156, 175, 196, 220, 0},
	{466, 262, 294, 311, 349, 392, 440, 0},
	{932, 523, 587, 622, 698, 784, 880, 0},
	{1865, 1047, 1175, 1245, 1397, 1568, 1760, 0},
}

// Durations is the ordered note-length table in milliseconds.
var Durations = [20]int{
	125, 125, 125, 125, 125, 125, 125, 125,
	250, 250, 250, 250,
	500, 500, 500, 500,
	1000, 1000, 1000,
	1500,
}

func (t *Table) Frequency(octave, pitch int) int {
	return t[octave][pitch]
}

// NoteFrequency looks up the tone for a derived note.
func (t *Table) NoteFrequency(n model.Note) int {
	return t.Frequency(n.Octave, n.Pitch)
}

// MIDIKey returns the nearest equal-tempered MIDI key for freq. ok is false
// for silence.
func MIDIKey(freq int) (key uint8, ok bool) {
	if freq <= 0 {
		return 0, false
	}
	k := math.Round(69 + 12*math.Log2(float64(freq)/440))
	if k < 0 || k > 127 {
		return 0, false
	}
	return uint8(k), true
}

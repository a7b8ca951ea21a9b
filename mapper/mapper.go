// Package mapper turns motion magnitudes into notes for the melody and bass
// voices.
//
// The thresholds are compared with strict inequalities and the octave and
// pitch adjustments are independent ifs, not else-ifs. Both are kept exactly
// as the instrument was tuned.
package mapper

import (
	"github.com/jsphweid/mpusynth/chord"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/scale"
	"github.com/jsphweid/mpusynth/util"
)

const (
	// StillnessThreshold mutes a voice when either magnitude is below it.
	StillnessThreshold = 0.5
	StillDuration      = 50

	MaxOctave = scale.NumOctaves - 1
	MaxPitch  = model.Silence - 1
)

// Rand is the randomness the mapper draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Tables are the immutable lookups shared by both voices.
type Tables struct {
	Durations *[20]int
	Harmonics *chord.Harmonics
}

func DefaultTables() Tables {
	return Tables{Durations: &scale.Durations, Harmonics: &chord.BbMajor}
}

// Band is a half-open index range into the duration table.
type Band struct {
	Lo, Hi int
}

var (
	ShortBand = Band{0, 10}
	MidBand   = Band{10, 18}
	LongBand  = Band{18, 19}
)

func randIn(r Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo)
}

// DurationBand picks the band for an acceleration magnitude. 0.5, 0.75 and 3
// themselves fall through to ShortBand.
func DurationBand(totalAcc float64) Band {
	if totalAcc > 0.5 && totalAcc < 0.75 {
		return LongBand
	}
	if totalAcc > 0.75 && totalAcc < 3 {
		return MidBand
	}
	return ShortBand
}

func (t Tables) NoteDuration(r Rand, totalAcc float64) int {
	b := DurationBand(totalAcc)
	return t.Durations[randIn(r, b.Lo, b.Hi)]
}

func isStill(totalAcc, totalSpin float64) bool {
	return totalAcc < StillnessThreshold || totalSpin < StillnessThreshold
}

// DefineMelodyNote walks the melody's octave and pitch from their previous
// values.
func (t Tables) DefineMelodyNote(r Rand, n *model.Note, totalAcc, totalSpin float64) {
	octave := n.Octave
	pitch := n.Pitch

	if totalAcc < 3 {
		octave--
	}
	if totalAcc >= 3 {
		octave++
	}

	if octave < 0 {
		octave = MaxOctave
	}
	if octave > MaxOctave {
		octave = 2
	}

	if totalSpin < 3 {
		pitch -= randIn(r, 0, 6)
	}
	if totalSpin > 4 {
		pitch += randIn(r, 0, 6)
	}

	pitch = util.Abs(pitch)
	for pitch > MaxPitch {
		pitch -= 3
	}

	n.Pitch = pitch
	n.Octave = octave
	n.Duration = t.NoteDuration(r, totalAcc)

	if isStill(totalAcc, totalSpin) {
		n.Pitch = model.Silence
		n.Duration = StillDuration
	}
}

// DefineBassNote derives the bass from its own motion, except for the pitch,
// which comes from the melody's current pitch.
func (t Tables) DefineBassNote(r Rand, n *model.Note, melody model.Note, totalAcc, totalSpin float64) {
	octave := n.Octave

	if totalSpin < 3 {
		octave--
	}
	if totalSpin >= 3 {
		octave++
	}

	if octave < 0 {
		octave = 2
	}
	if octave > MaxOctave {
		octave = 0
	}

	n.Pitch = t.Harmonics.Triad(melody.Pitch)[randIn(r, 0, 3)]
	n.Octave = octave
	n.Duration = t.NoteDuration(r, totalAcc) * 2

	if isStill(totalAcc, totalSpin) {
		n.Pitch = model.Silence
		n.Duration = StillDuration
	}
}

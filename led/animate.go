package led

import (
	"github.com/jsphweid/mpusynth/model"
)

// Animator paints a strip for the note a voice has just started.
type Animator interface {
	Animate(n model.Note, s *Strip)
}

// MelodyAnimator scrolls a rainbow whose spread follows the note length.
// Silence turns the strip white.
type MelodyAnimator struct {
	pixel int
}

func melodyReps(duration int) int8 {
	switch duration {
	case 250:
		return -1
	case 500:
		return 1
	case 1000:
		return 2
	}
	return 3
}

func (a *MelodyAnimator) Animate(n model.Note, s *Strip) {
	if a.pixel == s.Len() {
		a.pixel = 0
	}
	if n.Pitch < model.Silence {
		s.Rainbow(uint16(a.pixel), melodyReps(n.Duration), 255, 200, true)
		a.pixel++
		return
	}
	s.Fill(White, 0, 0)
}

// BassAnimator floods the strip with a blue whose level follows the note
// length. Silence turns the strip red.
type BassAnimator struct {
	pixel int
}

func bassColor(duration int) uint32 {
	switch duration {
	case 1000:
		return 100
	case 2000:
		return 200
	case 4000:
		return 50
	}
	return 150
}

func (a *BassAnimator) Animate(n model.Note, s *Strip) {
	if a.pixel == s.Len() {
		a.pixel = 0
	}
	if n.Pitch < model.Silence {
		s.Fill(Unpack(bassColor(n.Duration)), 0, s.Len())
		a.pixel++
		return
	}
	s.Fill(Red, 0, 0)
}

// Output ties a strip to its animation and the device that shows it.
type Output struct {
	Strip    *Strip
	Animator Animator
	Renderer Renderer
}

func (o *Output) Play(n model.Note) error {
	o.Animator.Animate(n, o.Strip)
	return o.Renderer.Show(o.Strip)
}

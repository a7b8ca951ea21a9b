package model

// Silence is the pitch index that maps to no tone in every octave.
const Silence = 7

// Note is the state of one voice. It is re-derived in place each time the
// voice's duration elapses.
type Note struct {
	Pitch     int
	Octave    int
	Duration  int // milliseconds
	IsPlaying bool
}

func (n Note) Silent() bool {
	return n.Pitch == Silence
}

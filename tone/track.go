package tone

import (
	"sync"
	"time"

	"github.com/jsphweid/mpusynth/clock"
)

type Segment struct {
	Start time.Time
	End   time.Time
	Freq  int
}

// Track records what a voice played against a clock so it can be rendered
// afterwards.
type Track struct {
	Name string

	mu       sync.Mutex
	clock    clock.Clock
	segments []Segment
	open     *Segment
}

func NewTrack(name string, c clock.Clock) *Track {
	return &Track{Name: name, clock: c}
}

func (t *Track) closeOpen(now time.Time) {
	if t.open == nil {
		return
	}
	t.open.End = now
	if t.open.End.After(t.open.Start) {
		t.segments = append(t.segments, *t.open)
	}
	t.open = nil
}

func (t *Track) Tone(freq int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	t.closeOpen(now)
	t.open = &Segment{Start: now, Freq: freq}
	return nil
}

func (t *Track) NoTone() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeOpen(t.clock.Now())
	return nil
}

// Segments returns the closed segments plus any still sounding, cut at the
// clock's current time.
func (t *Track) Segments() []Segment {
	t.mu.Lock()
	defer t.mu.Unlock()
	res := make([]Segment, len(t.segments), len(t.segments)+1)
	copy(res, t.segments)
	if t.open != nil {
		s := *t.open
		s.End = t.clock.Now()
		if s.End.After(s.Start) {
			res = append(res, s)
		}
	}
	return res
}

// span returns the earliest start and latest end across tracks.
func span(tracks []*Track) (first, last time.Time) {
	for _, tr := range tracks {
		for _, s := range tr.Segments() {
			if first.IsZero() || s.Start.Before(first) {
				first = s.Start
			}
			if s.End.After(last) {
				last = s.End
			}
		}
	}
	return first, last
}

//go:build !tinygo

package tone

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jsphweid/mpusynth/scale"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	smfResolution = 960
	smfVelocity   = 100
)

type smfEvent struct {
	at  time.Duration
	msg gomidi.Message
	off bool
}

func ticks(d time.Duration, bpm float64) uint32 {
	return uint32(math.Round(d.Seconds() * bpm / 60 * smfResolution))
}

// WriteSMF writes one MIDI track per voice track, on channels 0, 1, ...
// Silent segments become rests.
func WriteSMF(path string, bpm float64, origin time.Time, tracks ...*Track) error {
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(smfResolution)

	for i, tr := range tracks {
		ch := uint8(i)
		var events []smfEvent
		for _, seg := range tr.Segments() {
			key, ok := scale.MIDIKey(seg.Freq)
			if !ok {
				continue
			}
			events = append(events,
				smfEvent{at: seg.Start.Sub(origin), msg: gomidi.NoteOn(ch, key, smfVelocity)},
				smfEvent{at: seg.End.Sub(origin), msg: gomidi.NoteOff(ch, key), off: true},
			)
		}
		// note-offs first when they coincide with the next note-on
		sort.SliceStable(events, func(a, b int) bool {
			if events[a].at != events[b].at {
				return events[a].at < events[b].at
			}
			return events[a].off && !events[b].off
		})

		var track smf.Track
		if i == 0 {
			track.Add(0, smf.MetaTempo(bpm))
		}
		track.Add(0, smf.MetaTrackSequenceName(tr.Name))
		var prev uint32
		for _, ev := range events {
			at := ticks(ev.at, bpm)
			track.Add(at-prev, ev.msg)
			prev = at
		}
		track.Close(0)
		if err := s.Add(track); err != nil {
			return fmt.Errorf("write smf: %w", err)
		}
	}

	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}

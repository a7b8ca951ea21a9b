//go:build !tinygo

package tone

import (
	"github.com/jsphweid/mpusynth/midi"
	"github.com/jsphweid/mpusynth/scale"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDIOut plays each tone as a note on one channel.
type MIDIOut struct {
	Send     midi.Send
	Channel  uint8
	Velocity uint8

	key     uint8
	playing bool
}

func NewMIDIOut(send midi.Send, channel uint8) *MIDIOut {
	return &MIDIOut{Send: send, Channel: channel, Velocity: 100}
}

func (m *MIDIOut) Tone(freq int) error {
	if err := m.NoTone(); err != nil {
		return err
	}
	key, ok := scale.MIDIKey(freq)
	if !ok {
		return nil
	}
	if err := m.Send(gomidi.NoteOn(m.Channel, key, m.Velocity)); err != nil {
		return err
	}
	m.key = key
	m.playing = true
	return nil
}

func (m *MIDIOut) NoTone() error {
	if !m.playing {
		return nil
	}
	m.playing = false
	return m.Send(gomidi.NoteOff(m.Channel, m.key))
}

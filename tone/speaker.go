//go:build !tinygo

package tone

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hajimehoshi/oto/v2"
	"github.com/jsphweid/mpusynth/sample"
)

const speakerAmp = 0.2

// NewSpeakerContext opens the default audio device as mono 16-bit PCM.
func NewSpeakerContext(sampleRate int) (*oto.Context, error) {
	ctx, ready, err := oto.NewContext(sampleRate, 1, 2)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready
	return ctx, nil
}

// squareReader streams an oscillator as little-endian int16 PCM.
type squareReader struct {
	osc *sample.Square
}

func (r squareReader) Read(p []byte) (int, error) {
	n := len(p) / 2
	for i := 0; i < n; i++ {
		v := int16(r.osc.Next() * math.MaxInt16)
		binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
	}
	return n * 2, nil
}

// Speaker sounds one voice on the computer's audio output.
type Speaker struct {
	osc    *sample.Square
	player oto.Player
}

func NewSpeaker(ctx *oto.Context, sampleRate int) *Speaker {
	osc := sample.NewSquare(sampleRate, speakerAmp)
	player := ctx.NewPlayer(squareReader{osc: osc})
	player.Play()
	return &Speaker{osc: osc, player: player}
}

func (s *Speaker) Tone(freq int) error {
	s.osc.SetFrequency(freq)
	return nil
}

func (s *Speaker) NoTone() error {
	s.osc.SetFrequency(0)
	return nil
}

func (s *Speaker) Close() error {
	return s.player.Close()
}

// Package performer runs the polling loop that turns each voice's motion
// into notes, tones and light.
package performer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsphweid/mpusynth/clock"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/led"
	"github.com/jsphweid/mpusynth/mapper"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/scale"
	"github.com/jsphweid/mpusynth/sensor"
	"github.com/jsphweid/mpusynth/tone"
)

// Voice is one sensor, one tone output and optionally one LED strip.
type Voice struct {
	Name   string
	Note   model.Note
	Sensor sensor.Source
	Tone   tone.Generator
	LEDs   *led.Output

	// Notes counts the notes started so far.
	Notes int

	last time.Time
}

func NewMelody(s sensor.Source, g tone.Generator, leds *led.Output) *Voice {
	return &Voice{Name: "melody", Note: model.Note{Octave: 3}, Sensor: s, Tone: g, LEDs: leds}
}

func NewBass(s sensor.Source, g tone.Generator, leds *led.Output) *Voice {
	return &Voice{Name: "bass", Sensor: s, Tone: g, LEDs: leds}
}

func (v *Voice) due(now time.Time) bool {
	return now.Sub(v.last) >= time.Duration(v.Note.Duration)*time.Millisecond
}

func (v *Voice) stop() error {
	if !v.Note.IsPlaying {
		return nil
	}
	v.Note.IsPlaying = false
	return v.Tone.NoTone()
}

type Performer struct {
	Melody *Voice
	Bass   *Voice
	Tables mapper.Tables
	Scale  *scale.Table
	Rand   mapper.Rand
	Clock  clock.Clock
	Delay  time.Duration
}

func New(melody, bass *Voice, r mapper.Rand, c clock.Clock) *Performer {
	return &Performer{
		Melody: melody,
		Bass:   bass,
		Tables: mapper.DefaultTables(),
		Scale:  &scale.BbMajor,
		Rand:   r,
		Clock:  c,
		Delay:  constants.PerformLoopDelay,
	}
}

// Tick updates every voice whose note has run out. Melody goes first so a
// bass note started in the same tick harmonises with the new melody pitch.
func (p *Performer) Tick(ctx context.Context, now time.Time) error {
	err := p.update(ctx, now, p.Melody, func(acc, spin float64) {
		p.Tables.DefineMelodyNote(p.Rand, &p.Melody.Note, acc, spin)
	})
	if err != nil {
		return err
	}
	return p.update(ctx, now, p.Bass, func(acc, spin float64) {
		p.Tables.DefineBassNote(p.Rand, &p.Bass.Note, p.Melody.Note, acc, spin)
	})
}

func (p *Performer) update(ctx context.Context, now time.Time, v *Voice, define func(acc, spin float64)) error {
	if !v.due(now) {
		return nil
	}

	reading, err := v.Sensor.Read(ctx)
	if errors.Is(err, sensor.ErrNoReading) {
		slog.Debug("performer: waiting for sensor", "voice", v.Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s sensor: %w", v.Name, err)
	}

	v.last = now
	if err := v.stop(); err != nil {
		return fmt.Errorf("%s tone: %w", v.Name, err)
	}

	acc, spin := sensor.Magnitudes(reading)
	define(acc, spin)
	freq := p.Scale.NoteFrequency(v.Note)
	slog.Debug("performer: note",
		"voice", v.Name,
		"acc", acc,
		"spin", spin,
		"octave", v.Note.Octave,
		"pitch", v.Note.Pitch,
		"duration", v.Note.Duration,
		"hz", freq)

	if err := v.Tone.Tone(freq); err != nil {
		return fmt.Errorf("%s tone: %w", v.Name, err)
	}
	v.Note.IsPlaying = true
	v.Notes++

	if v.LEDs != nil {
		if err := v.LEDs.Play(v.Note); err != nil {
			return fmt.Errorf("%s leds: %w", v.Name, err)
		}
	}
	return nil
}

// Stop silences any voice still sounding.
func (p *Performer) Stop() error {
	return errors.Join(p.Melody.stop(), p.Bass.stop())
}

// Run ticks on the performer's clock until ctx is done.
func (p *Performer) Run(ctx context.Context) error {
	slog.Info("performer: started", "delay", p.Delay)
	defer func() {
		if err := p.Stop(); err != nil {
			slog.Error("performer: stopping tones", "err", err)
		}
		slog.Info("performer: stopped", "melody_notes", p.Melody.Notes, "bass_notes", p.Bass.Notes)
	}()

	t := time.NewTicker(p.Delay)
	defer t.Stop()
	for {
		if err := p.Tick(ctx, p.Clock.Now()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// Simulate plays length worth of loop iterations against a manual clock,
// as fast as the outputs allow.
func (p *Performer) Simulate(ctx context.Context, c *clock.Manual, length time.Duration) error {
	end := c.Now().Add(length)
	for now := c.Now(); now.Before(end); now = c.Advance(p.Delay) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Tick(ctx, now); err != nil {
			return err
		}
	}
	return p.Stop()
}

// Summarise fills the note counts of a session.
func (p *Performer) Summarise(s *model.Session, ended time.Time) {
	s.Ended = ended
	s.MelodyNotes = p.Melody.Notes
	s.BassNotes = p.Bass.Notes
}

// Package tone sounds the voices' notes: live on MIDI or a speaker, or
// recorded for WAV and SMF rendering.
package tone

import (
	"errors"
	"log/slog"
)

// Generator is a monophonic tone output, like a buzzer pin.
type Generator interface {
	// Tone starts sounding freq Hz. Zero is silence.
	Tone(freq int) error
	NoTone() error
}

// Multi fans every call out to all generators and joins their errors.
type Multi []Generator

func (m Multi) Tone(freq int) error {
	var errs []error
	for _, g := range m {
		if err := g.Tone(freq); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) NoTone() error {
	var errs []error
	for _, g := range m {
		if err := g.NoTone(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log only reports what would be played.
type Log struct {
	Voice string
}

func (l Log) Tone(freq int) error {
	slog.Info("tone: on", "voice", l.Voice, "hz", freq)
	return nil
}

func (l Log) NoTone() error {
	slog.Debug("tone: off", "voice", l.Voice)
	return nil
}

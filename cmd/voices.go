package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jsphweid/mpusynth/clock"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/led"
	"github.com/jsphweid/mpusynth/midi"
	"github.com/jsphweid/mpusynth/sensor"
	"github.com/jsphweid/mpusynth/tone"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

const speakerSampleRate = 44100

// closers collects what a command opened so it can be released in reverse.
type closers []io.Closer

func (c *closers) add(cl io.Closer) {
	*c = append(*c, cl)
}

func (c closers) Close() error {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			slog.Warn("close failed", "err", err)
		}
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type sensorFlags struct {
	kind       string
	seed       int64
	melodyPort string
	bassPort   string
	melodyOSC  string
	bassOSC    string
}

func openSensors(f sensorFlags, cl *closers) (melody, bass sensor.Source, err error) {
	switch f.kind {
	case "sim":
		return sensor.NewSimulated(f.seed), sensor.NewSimulated(f.seed + 1), nil
	case "serial":
		m, err := sensor.OpenSerial(f.melodyPort, constants.GetSerialBaud())
		if err != nil {
			return nil, nil, err
		}
		cl.add(m)
		b, err := sensor.OpenSerial(f.bassPort, constants.GetSerialBaud())
		if err != nil {
			return nil, nil, err
		}
		cl.add(b)
		return m, b, nil
	case "osc":
		m, err := sensor.ListenOSC(f.melodyOSC)
		if err != nil {
			return nil, nil, err
		}
		cl.add(m)
		b, err := sensor.ListenOSC(f.bassOSC)
		if err != nil {
			return nil, nil, err
		}
		cl.add(b)
		return m, b, nil
	}
	return nil, nil, fmt.Errorf("unknown sensor kind %q (want sim, serial or osc)", f.kind)
}

func openTones(kind, midiPattern string, cl *closers) (melody, bass tone.Generator, err error) {
	switch kind {
	case "log":
		return tone.Log{Voice: "melody"}, tone.Log{Voice: "bass"}, nil
	case "midi":
		send, out, err := midi.OpenOut(midiPattern)
		if err != nil {
			return nil, nil, err
		}
		cl.add(closerFunc(func() error {
			gomidi.CloseDriver()
			return nil
		}))
		slog.Info("midi: output opened", "port", out.String())
		return tone.NewMIDIOut(send, 0), tone.NewMIDIOut(send, 1), nil
	case "speaker":
		ctx, err := tone.NewSpeakerContext(speakerSampleRate)
		if err != nil {
			return nil, nil, err
		}
		m := tone.NewSpeaker(ctx, speakerSampleRate)
		cl.add(m)
		b := tone.NewSpeaker(ctx, speakerSampleRate)
		cl.add(b)
		return m, b, nil
	}
	return nil, nil, fmt.Errorf("unknown tone output %q (want log, midi or speaker)", kind)
}

func openRenderer(kind, port string, cl *closers) (led.Renderer, error) {
	switch kind {
	case "none":
		return nil, nil
	case "term":
		return led.NewTerminalRenderer(os.Stdout), nil
	case "serial":
		r, err := led.OpenSerialRenderer(port, constants.GetSerialBaud())
		if err != nil {
			return nil, err
		}
		cl.add(r)
		return r, nil
	}
	return nil, fmt.Errorf("unknown led output %q (want none, term or serial)", kind)
}

func openLEDs(kind, port string, cl *closers) (melody, bass *led.Output, err error) {
	r, err := openRenderer(kind, port, cl)
	if err != nil || r == nil {
		return nil, nil, err
	}
	melody = &led.Output{
		Strip:    led.NewStrip(0, "melody", constants.MelodyStripLen),
		Animator: &led.MelodyAnimator{},
		Renderer: r,
	}
	bass = &led.Output{
		Strip:    led.NewStrip(1, "bass", constants.BassStripLen),
		Animator: &led.BassAnimator{},
		Renderer: r,
	}
	return melody, bass, nil
}

// record wraps both generators so everything played is also captured.
func record(c clock.Clock, melody, bass tone.Generator) (m, b tone.Generator, tracks []*tone.Track) {
	mt := tone.NewTrack("melody", c)
	bt := tone.NewTrack("bass", c)
	return tone.Multi{melody, mt}, tone.Multi{bass, bt}, []*tone.Track{mt, bt}
}

package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Send is how the rest of the module emits MIDI. It matches the function
// returned by gomidi's SendTo.
type Send = func(msg gomidi.Message) error

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// smf can panic on malformed input
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("parsing midi file: %w", err)
	}
	return res, nil
}

func OutPortNames() []string {
	var names []string
	for _, out := range gomidi.GetOutPorts() {
		names = append(names, out.String())
	}
	return names
}

// OpenOut returns a sender for the first output port whose name contains
// pattern (case-insensitive). A driver must be registered by the caller.
func OpenOut(pattern string) (Send, drivers.Out, error) {
	for _, out := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(out.String()), strings.ToLower(pattern)) {
			send, err := gomidi.SendTo(out)
			if err != nil {
				return nil, nil, fmt.Errorf("open midi out %q: %w", out.String(), err)
			}
			return send, out, nil
		}
	}
	return nil, nil, fmt.Errorf("no midi output matching %q, available: %v", pattern, OutPortNames())
}

package sensor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/jsphweid/mpusynth/model"
)

var ErrBadLine = errors.New("sensor: malformed reading line")

// The board prints rotation in degrees using 180/3.1415, not 180/π.
const boardRadToDeg = 180 / 3.1415

// ParseLine decodes one debug line printed by the board, e.g.
//
//	AccX:0.12,AccY:-0.40,AccZ:9.81,RotX:1.20,RotY:0.00,RotZ:-3.10,Temp:24.50
func ParseLine(line string) (model.Reading, error) {
	var r model.Reading
	fields := map[string]*float64{
		"AccX": &r.Accel.X, "AccY": &r.Accel.Y, "AccZ": &r.Accel.Z,
		"RotX": &r.Gyro.X, "RotY": &r.Gyro.Y, "RotZ": &r.Gyro.Z,
		"Temp": &r.Temp,
	}
	seen := 0
	for _, part := range strings.Split(strings.TrimSpace(line), ",") {
		key, val, ok := strings.Cut(part, ":")
		if !ok {
			return model.Reading{}, fmt.Errorf("%w: %q", ErrBadLine, part)
		}
		dst, known := fields[key]
		if !known {
			continue
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return model.Reading{}, fmt.Errorf("%w: %s: %v", ErrBadLine, key, err)
		}
		*dst = f
		seen++
	}
	if seen < 6 {
		return model.Reading{}, fmt.Errorf("%w: only %d fields in %q", ErrBadLine, seen, line)
	}
	r.Gyro.X /= boardRadToDeg
	r.Gyro.Y /= boardRadToDeg
	r.Gyro.Z /= boardRadToDeg
	return r, nil
}

// LineSource keeps the most recent reading parsed from a stream of lines.
type LineSource struct {
	mu     sync.Mutex
	latest model.Reading
	have   bool
	err    error
	closer io.Closer
}

func NewLineSource(r io.Reader) *LineSource {
	s := &LineSource{}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	go s.scan(r)
	return s
}

func (s *LineSource) scan(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		reading, err := ParseLine(scanner.Text())
		if err != nil {
			slog.Debug("sensor: skipping line", "err", err)
			continue
		}
		s.mu.Lock()
		s.latest = reading
		s.have = true
		s.mu.Unlock()
	}
	s.mu.Lock()
	s.err = scanner.Err()
	if s.err == nil {
		s.err = io.EOF
	}
	s.mu.Unlock()
}

func (s *LineSource) Read(ctx context.Context) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// a finished stream means the sensor is gone, not still
	if s.err != nil {
		return model.Reading{}, s.err
	}
	if s.have {
		return s.latest, nil
	}
	return model.Reading{}, ErrNoReading
}

func (s *LineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Package streamer forwards raw sensor readings over OSC and lets a mode
// button cycle the /opt value the receivers switch on.
package streamer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
	"github.com/hypebeast/go-osc/osc"
	"github.com/jsphweid/mpusynth/clock"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/oscmsg"
	"github.com/jsphweid/mpusynth/sensor"
)

// Sender delivers one OSC packet to a fixed destination.
type Sender interface {
	Send(packet osc.Packet) error
}

// Dialer builds the sender for one destination port.
type Dialer func(host string, port int) Sender

func DialUDP(host string, port int) Sender {
	return osc.NewClient(host, port)
}

// Pin reads a digital input. true is HIGH. The mode button is wired with a
// pull-up, so pressing it pulls the pin LOW.
type Pin interface {
	Get() bool
}

type Streamer struct {
	Source sensor.RawSource
	Button Pin
	Dial   Dialer
	Clock  clock.Clock
	Delay  time.Duration
	Ports  [2]int

	mu      sync.Mutex
	target  string
	senders []Sender
	mode    int

	lastLevel bool
	lastPress time.Time

	sent    atomic.Uint64
	virtual func(func())
}

func New(src sensor.RawSource, target string, port1, port2 int) *Streamer {
	return &Streamer{
		Source:    src,
		Dial:      DialUDP,
		Clock:     clock.Real{},
		Delay:     constants.StreamLoopDelay,
		Ports:     [2]int{port1, port2},
		target:    target,
		mode:      1,
		lastLevel: true,
		virtual:   debounce.New(constants.DebounceDelay),
	}
}

func (s *Streamer) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// SetTarget points both ports at a new host. The next send uses it.
func (s *Streamer) SetTarget(host string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if host == s.target {
		return
	}
	slog.Info("streamer: target changed", "from", s.target, "to", host)
	s.target = host
	s.senders = nil
}

func (s *Streamer) Mode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Streamer) Status() model.StreamerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.StreamerStatus{
		Target: s.target,
		Port1:  s.Ports[0],
		Port2:  s.Ports[1],
		Mode:   s.mode,
		Sent:   s.sent.Load(),
	}
}

// broadcast sends each message to port 1, then each to port 2.
func (s *Streamer) broadcast(msgs ...*osc.Message) {
	s.mu.Lock()
	if s.senders == nil {
		for _, p := range s.Ports {
			s.senders = append(s.senders, s.Dial(s.target, p))
		}
	}
	senders := s.senders
	s.mu.Unlock()

	for i, snd := range senders {
		for _, m := range msgs {
			if err := snd.Send(m); err != nil {
				slog.Warn("streamer: send failed", "address", m.Address, "port", s.Ports[i], "err", err)
				continue
			}
			s.sent.Add(1)
		}
	}
}

// Press advances the mode, wrapping after the last one, and announces it.
func (s *Streamer) Press() int {
	s.mu.Lock()
	s.mode++
	if s.mode > constants.NumModes {
		s.mode = 1
	}
	mode := s.mode
	s.mu.Unlock()

	slog.Info("streamer: mode", "mode", mode)
	s.broadcast(oscmsg.Opt(mode))
	return mode
}

// VirtualPress is a press from the web page. Bursts within the debounce
// window count once.
func (s *Streamer) VirtualPress() {
	s.virtual(func() { s.Press() })
}

// pollButton presses on a HIGH to LOW edge, ignoring edges that come less
// than the debounce delay after the last accepted press.
func (s *Streamer) pollButton(now time.Time) bool {
	if s.Button == nil {
		return false
	}
	level := s.Button.Get()
	pressed := false
	if s.lastLevel && !level && now.Sub(s.lastPress) > constants.DebounceDelay {
		s.Press()
		s.lastPress = now
		pressed = true
	}
	s.lastLevel = level
	return pressed
}

// Step is one loop iteration: the button, then one reading out to both
// ports.
func (s *Streamer) Step(ctx context.Context, now time.Time) error {
	s.pollButton(now)

	raw, err := s.Source.ReadRaw(ctx)
	if errors.Is(err, sensor.ErrNoReading) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("streamer sensor: %w", err)
	}
	s.broadcast(oscmsg.Acc(raw), oscmsg.Gyr(raw))
	return nil
}

func (s *Streamer) Run(ctx context.Context) error {
	slog.Info("streamer: started", "target", s.Target(), "port1", s.Ports[0], "port2", s.Ports[1])
	t := time.NewTicker(s.Delay)
	defer t.Stop()
	for {
		if err := s.Step(ctx, s.Clock.Now()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			slog.Info("streamer: stopped", "sent", s.sent.Load())
			return nil
		case <-t.C:
		}
	}
}

// Package sample generates the buzzer-like square waves the voices sound as.
package sample

import "sync/atomic"

// Square is a square-wave oscillator. A frequency of zero produces silence.
// SetFrequency may be called from a different goroutine than Fill.
type Square struct {
	SampleRate int
	Amp        float32

	freq  atomic.Int64
	phase float64
}

func NewSquare(sampleRate int, amp float32) *Square {
	return &Square{SampleRate: sampleRate, Amp: amp}
}

func (s *Square) SetFrequency(hz int) {
	s.freq.Store(int64(hz))
}

func (s *Square) Frequency() int {
	return int(s.freq.Load())
}

func (s *Square) Next() float32 {
	hz := s.freq.Load()
	if hz <= 0 {
		s.phase = 0
		return 0
	}
	v := s.Amp
	if s.phase >= 0.5 {
		v = -s.Amp
	}
	s.phase += float64(hz) / float64(s.SampleRate)
	for s.phase >= 1 {
		s.phase--
	}
	return v
}

func (s *Square) Fill(buf []float32) {
	for i := range buf {
		buf[i] = s.Next()
	}
}

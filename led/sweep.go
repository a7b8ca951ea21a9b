package led

import (
	"context"
	"image/color"
	"time"
)

const (
	sweepLevels    = 255
	slowSweepStep  = 200 * time.Millisecond
	fastSweepStep  = 50 * time.Millisecond
	whitePixelStep = 100 * time.Millisecond
)

// Step is one visible frame of a sweep. Wait elapses before the strip is
// shown and Hold after.
type Step struct {
	Wait time.Duration
	Hold time.Duration
}

// Sweep walks a single colour up the strip and back down, once per
// brightness level. The colour family comes from the octave and pitch of
// a note; long notes sweep slowly.
type Sweep struct {
	strip *Strip
	paint func(level uint8) color.RGBA
	once  func() Step
	delay time.Duration

	level int
	pos   int
	back  bool
	done  bool
}

func NewSweep(s *Strip, octave, pitch, duration int) *Sweep {
	w := &Sweep{strip: s, delay: fastSweepStep}
	if duration > 600 {
		w.delay = slowSweepStep
	}
	if s.Len() == 0 {
		w.done = true
		return w
	}

	switch {
	case octave <= 1:
		switch {
		case pitch <= 3:
			w.paint = func(l uint8) color.RGBA { return RGB(0, 0, l) }
		case pitch < 7:
			w.paint = func(l uint8) color.RGBA { return RGB(0, l, l) }
		default:
			w.once = func() Step {
				s.Clear()
				return Step{}
			}
		}
	case octave == 2:
		switch {
		case pitch <= 3:
			w.paint = func(l uint8) color.RGBA { return RGB(0, l, 0) }
		case pitch < 7:
			w.paint = func(l uint8) color.RGBA { return RGB(173, l, 47) }
		default:
			w.once = func() Step {
				s.Fill(White, 0, 0)
				return Step{Wait: time.Duration(s.Len()) * whitePixelStep}
			}
		}
	default:
		w.done = true
	}
	return w
}

// Next paints the strip for the following frame. It reports false once
// the sweep is over.
func (w *Sweep) Next() (Step, bool) {
	if w.done {
		return Step{}, false
	}
	if w.once != nil {
		w.done = true
		return w.once(), true
	}

	c := w.paint(uint8(w.level))
	n := w.strip.Len()
	if !w.back {
		w.strip.SetPixel(w.pos, c)
		w.pos++
		if w.pos == n {
			w.back = true
		}
	} else {
		w.strip.SetPixel(w.pos, c)
		w.pos--
		if w.pos == 0 {
			w.back = false
			w.level++
			if w.level == sweepLevels {
				w.done = true
			}
		}
	}
	return Step{Hold: w.delay}, true
}

// Play runs the sweep to completion on r. sleep may be nil, in which case
// steps wait on the wall clock.
func (w *Sweep) Play(ctx context.Context, r Renderer, sleep func(context.Context, time.Duration) error) error {
	if sleep == nil {
		sleep = Sleep
	}
	for {
		step, ok := w.Next()
		if !ok {
			return nil
		}
		if err := sleep(ctx, step.Wait); err != nil {
			return err
		}
		if err := r.Show(w.strip); err != nil {
			return err
		}
		if err := sleep(ctx, step.Hold); err != nil {
			return err
		}
	}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

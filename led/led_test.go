package led

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jsphweid/mpusynth/model"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	frames [][]byte
}

func (r *recorder) Show(s *Strip) error {
	f := make([]byte, 0, 3*s.Len())
	for _, p := range s.Pixels {
		f = append(f, p.R, p.G, p.B)
	}
	r.frames = append(r.frames, f)
	return nil
}

func TestColorHSV(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint32(0xFF0000), ColorHSV(0, 255, 255))
	assert.Equal(uint32(0x00FF00), ColorHSV(21845, 255, 255))
	assert.Equal(uint32(0xFFFFFF), ColorHSV(12345, 0, 255))
	assert.Equal(uint32(0xC80000), ColorHSV(0, 255, 200))
	assert.Equal(uint32(0), ColorHSV(40000, 255, 0))
}

func TestGammaKeepsEndsAndOrder(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint8(0), Gamma8(0))
	assert.Equal(uint8(255), Gamma8(255))
	for i := 1; i < 256; i++ {
		assert.GreaterOrEqual(Gamma8(uint8(i)), Gamma8(uint8(i-1)))
	}
	assert.Less(Gamma8(128), uint8(128))
	assert.Equal(uint32(0xFF0000), Gamma32(0xFF0000))
}

func TestStripBounds(t *testing.T) {
	assert := assert.New(t)
	s := NewStrip(0, "test", 4)
	s.SetPixel(-1, White)
	s.SetPixel(4, White)
	for _, p := range s.Pixels {
		assert.Equal(Off, p)
	}

	s.Fill(Red, 1, 2)
	assert.Equal([]bool{false, true, true, false}, []bool{
		s.Pixels[0] == Red, s.Pixels[1] == Red, s.Pixels[2] == Red, s.Pixels[3] == Red,
	})

	s.Fill(White, 2, 0)
	assert.Equal(White, s.Pixels[3])
	assert.Equal(Red, s.Pixels[1])
}

func TestMelodyAnimator(t *testing.T) {
	t.Run("silence is white", func(t *testing.T) {
		s := NewStrip(0, "melody", 44)
		a := &MelodyAnimator{}
		a.Animate(model.Note{Pitch: model.Silence, Duration: 50}, s)
		for _, p := range s.Pixels {
			assert.Equal(t, White, p)
		}
		assert.Equal(t, 0, a.pixel)
	})

	t.Run("rainbow advances and wraps", func(t *testing.T) {
		assert := assert.New(t)
		s := NewStrip(0, "melody", 44)
		a := &MelodyAnimator{}
		for i := 0; i < 44; i++ {
			a.Animate(model.Note{Pitch: 1, Duration: 500}, s)
		}
		assert.Equal(44, a.pixel)
		a.Animate(model.Note{Pitch: 1, Duration: 500}, s)
		assert.Equal(1, a.pixel)
		assert.NotEqual(s.Pixels[0], s.Pixels[22])
	})

	t.Run("reps follow duration", func(t *testing.T) {
		assert := assert.New(t)
		assert.Equal(int8(-1), melodyReps(250))
		assert.Equal(int8(1), melodyReps(500))
		assert.Equal(int8(2), melodyReps(1000))
		assert.Equal(int8(3), melodyReps(125))
	})
}

func TestBassAnimator(t *testing.T) {
	cases := []struct {
		duration int
		blue     uint8
	}{
		{1000, 100},
		{2000, 200},
		{4000, 50},
		{500, 150},
	}
	for _, c := range cases {
		s := NewStrip(1, "bass", 38)
		(&BassAnimator{}).Animate(model.Note{Pitch: 2, Duration: c.duration}, s)
		assert.Equal(t, RGB(0, 0, c.blue), s.Pixels[37])
	}

	s := NewStrip(1, "bass", 38)
	(&BassAnimator{}).Animate(model.Note{Pitch: model.Silence}, s)
	assert.Equal(t, Red, s.Pixels[0])
}

func TestOutputShowsAfterAnimating(t *testing.T) {
	assert := assert.New(t)
	rec := &recorder{}
	o := &Output{Strip: NewStrip(1, "bass", 2), Animator: &BassAnimator{}, Renderer: rec}
	assert.NoError(o.Play(model.Note{Pitch: model.Silence}))
	assert.Equal([][]byte{{255, 0, 0, 255, 0, 0}}, rec.frames)
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestSweepFrameCount(t *testing.T) {
	assert := assert.New(t)
	s := NewStrip(0, "sweep", 3)
	rec := &recorder{}
	assert.NoError(NewSweep(s, 0, 1, 100).Play(context.Background(), rec, noSleep))

	// up and back for every level
	assert.Len(rec.frames, sweepLevels*6)
	assert.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0}, rec.frames[0][:9])
	assert.Equal([]byte{0, 0, 0}, rec.frames[0][3:6])
	last := rec.frames[len(rec.frames)-1]
	assert.Equal([]byte{0, 0, 254, 0, 0, 254, 0, 0, 254}, last)
}

func TestSweepColourFamilies(t *testing.T) {
	first := func(octave, pitch int) []byte {
		s := NewStrip(0, "sweep", 2)
		s.Fill(RGB(9, 9, 9), 0, 0)
		w := NewSweep(s, octave, pitch, 100)
		for i := 0; i < 4; i++ {
			w.Next()
		}
		// level 1 has started on pixel 0
		w.Next()
		return []byte{s.Pixels[0].R, s.Pixels[0].G, s.Pixels[0].B}
	}
	assert.Equal(t, []byte{0, 0, 1}, first(1, 3))
	assert.Equal(t, []byte{0, 1, 1}, first(0, 5))
	assert.Equal(t, []byte{0, 1, 0}, first(2, 0))
	assert.Equal(t, []byte{173, 1, 47}, first(2, 6))
}

func TestSweepSingleFrames(t *testing.T) {
	t.Run("low silence clears", func(t *testing.T) {
		assert := assert.New(t)
		s := NewStrip(0, "sweep", 2)
		s.Fill(Red, 0, 0)
		rec := &recorder{}
		assert.NoError(NewSweep(s, 1, 7, 100).Play(context.Background(), rec, noSleep))
		assert.Equal([][]byte{{0, 0, 0, 0, 0, 0}}, rec.frames)
	})

	t.Run("octave two silence is white after a wait", func(t *testing.T) {
		assert := assert.New(t)
		s := NewStrip(0, "sweep", 2)
		w := NewSweep(s, 2, 7, 100)
		step, ok := w.Next()
		assert.True(ok)
		assert.Equal(200*time.Millisecond, step.Wait)
		assert.Equal(White, s.Pixels[1])
		_, ok = w.Next()
		assert.False(ok)
	})

	t.Run("high octaves do nothing", func(t *testing.T) {
		_, ok := NewSweep(NewStrip(0, "sweep", 2), 3, 1, 100).Next()
		assert.False(t, ok)
	})

	t.Run("empty strip ends at once", func(t *testing.T) {
		assert := assert.New(t)
		for _, n := range []int{0, -3} {
			s := NewStrip(0, "sweep", n)
			assert.Equal(0, s.Len())
			rec := &recorder{}
			assert.NoError(NewSweep(s, 0, 0, 100).Play(context.Background(), rec, noSleep))
			assert.Empty(rec.frames)
		}
	})
}

func TestSweepSpeedFollowsDuration(t *testing.T) {
	assert := assert.New(t)
	step, _ := NewSweep(NewStrip(0, "sweep", 2), 0, 0, 1000).Next()
	assert.Equal(slowSweepStep, step.Hold)
	step, _ = NewSweep(NewStrip(0, "sweep", 2), 0, 0, 600).Next()
	assert.Equal(fastSweepStep, step.Hold)
}

func TestSweepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewSweep(NewStrip(0, "sweep", 2), 0, 0, 100).Play(ctx, Discard{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeFrame(t *testing.T) {
	assert := assert.New(t)
	s := NewStrip(2, "bass", 1)
	s.SetPixel(0, RGB(1, 2, 3))
	data, err := EncodeFrame(s)
	assert.NoError(err)
	length := byte(6)
	cks := length ^ CmdShowPixels ^ 2 ^ 1 ^ 1 ^ 2 ^ 3
	assert.Equal([]byte{SOF0, SOF1, length, CmdShowPixels, 2, 1, 1, 2, 3, cks}, data)

	_, err = EncodeFrame(NewStrip(0, "long", MaxFramePixels+1))
	assert.ErrorIs(err, ErrStripTooLong)
}

type nopCloser struct{ bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestSerialRendererWritesFrames(t *testing.T) {
	assert := assert.New(t)
	w := &nopCloser{}
	r := NewSerialRenderer(w)
	assert.NoError(r.Show(NewStrip(0, "melody", 44)))
	assert.NoError(r.Show(NewStrip(1, "bass", 38)))
	assert.Equal(4+2+44*3+1+4+2+38*3+1, w.Len())
}

func TestTerminalRenderer(t *testing.T) {
	assert := assert.New(t)
	var b bytes.Buffer
	s := NewStrip(0, "melody", 2)
	s.SetPixel(1, RGB(10, 20, 30))
	assert.NoError(NewTerminalRenderer(&b).Show(s))
	assert.Contains(b.String(), "\x1b[48;2;10;20;30m")
	assert.Contains(b.String(), "melody")
}

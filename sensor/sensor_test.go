package sensor

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jsphweid/mpusynth/model"
	"github.com/stretchr/testify/assert"
)

func TestHorizontalMagnitudeIgnoresZ(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(5.0, HorizontalMagnitude(model.Vector3{X: 3, Y: 4, Z: 100}))
	assert.Equal(0.0, HorizontalMagnitude(model.Vector3{Z: 9.8}))
}

func TestConvertOneGAndOneDegree(t *testing.T) {
	assert := assert.New(t)
	r := Convert(model.RawReading{Az: 4096, Gx: 655}, AccelLSBPerG8, GyroLSBPerDeg500)
	assert.InDelta(StandardGravity, r.Accel.Z, 1e-9)
	assert.InDelta(10*math.Pi/180, r.Gyro.X, 1e-9)

	back := Unconvert(r, AccelLSBPerG8, GyroLSBPerDeg500)
	assert.Equal(int16(4096), back.Az)
	assert.Equal(int16(655), back.Gx)
}

func TestConvertMicroMatchesDriverUnits(t *testing.T) {
	assert := assert.New(t)
	// 1 g down Z and a full turn per second about X
	r := ConvertMicro([3]int32{0, -500000, 1000000}, [3]int32{360000000, 0, -1000000})
	assert.InDelta(StandardGravity, r.Accel.Z, 1e-9)
	assert.InDelta(-StandardGravity/2, r.Accel.Y, 1e-9)
	assert.InDelta(2*math.Pi, r.Gyro.X, 1e-9)
	assert.InDelta(-math.Pi/180, r.Gyro.Z, 1e-12)

	// a resting board is still; a shaken one is not
	acc, spin := Magnitudes(ConvertMicro([3]int32{0, 0, 1000000}, [3]int32{}))
	assert.Less(acc, 0.5)
	assert.Less(spin, 0.5)
}

func TestUnconvertSaturates(t *testing.T) {
	assert := assert.New(t)
	raw := Unconvert(model.Reading{Accel: model.Vector3{X: 1000, Y: -1000}}, AccelLSBPerG8, GyroLSBPerDeg500)
	assert.Equal(int16(math.MaxInt16), raw.Ax)
	assert.Equal(int16(math.MinInt16), raw.Ay)
}

func TestParseLine(t *testing.T) {
	assert := assert.New(t)
	r, err := ParseLine("AccX:0.50,AccY:-1.25,AccZ:9.81,RotX:180.00,RotY:0.00,RotZ:-18.00,Temp:24.50\r\n")
	assert.Nil(err)
	assert.Equal(0.5, r.Accel.X)
	assert.Equal(-1.25, r.Accel.Y)
	assert.InDelta(3.1415, r.Gyro.X, 1e-9)
	assert.InDelta(-0.31415, r.Gyro.Z, 1e-9)
	assert.Equal(24.5, r.Temp)
}

func TestParseLineRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"MPU6050 1 Found!",
		"AccX:1,AccY:2",
		"AccX:1,AccY:x,AccZ:1,RotX:1,RotY:1,RotZ:1",
	}
	for _, line := range cases {
		t.Run(line, func(t *testing.T) {
			_, err := ParseLine(line)
			assert.True(t, errors.Is(err, ErrBadLine))
		})
	}
}

func TestLineSourceKeepsLatest(t *testing.T) {
	assert := assert.New(t)
	input := strings.Join([]string{
		"Searching MPU6050 chip 1",
		"AccX:1,AccY:0,AccZ:0,RotX:0,RotY:0,RotZ:0,Temp:20",
		"AccX:2,AccY:0,AccZ:0,RotX:0,RotY:0,RotZ:0,Temp:21",
	}, "\n") + "\n"
	pr, pw := io.Pipe()
	go pw.Write([]byte(input))
	s := NewLineSource(pr)

	assert.Eventually(func() bool {
		r, err := s.Read(context.Background())
		return err == nil && r.Accel.X == 2
	}, time.Second, 5*time.Millisecond)
	assert.Nil(s.Close())
}

func TestLineSourceStopsServingReadingsAfterStreamEnds(t *testing.T) {
	assert := assert.New(t)
	pr, pw := io.Pipe()
	s := NewLineSource(pr)
	go pw.Write([]byte("AccX:1,AccY:0,AccZ:0,RotX:0,RotY:0,RotZ:0,Temp:20\n"))

	assert.Eventually(func() bool {
		_, err := s.Read(context.Background())
		return err == nil
	}, time.Second, 5*time.Millisecond)

	// unplugged
	pw.Close()
	assert.Eventually(func() bool {
		_, err := s.Read(context.Background())
		return errors.Is(err, io.EOF)
	}, time.Second, 5*time.Millisecond)
}

func TestLineSourceReportsEOFWithoutReadings(t *testing.T) {
	s := NewLineSource(strings.NewReader("nothing useful\n"))
	assert.Eventually(t, func() bool {
		_, err := s.Read(context.Background())
		return errors.Is(err, io.EOF)
	}, time.Second, 5*time.Millisecond)
}

func TestSimulatedIsDeterministic(t *testing.T) {
	assert := assert.New(t)
	a, b := NewSimulated(42), NewSimulated(42)
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		ra, _ := a.Read(ctx)
		rb, _ := b.Read(ctx)
		assert.Equal(ra, rb)
	}
}

func TestSimulatedVisitsStillAndFastMotion(t *testing.T) {
	s := NewSimulated(1)
	ctx := context.Background()
	var still, fast bool
	for i := 0; i < 2000; i++ {
		r, err := s.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		acc, spin := Magnitudes(r)
		if acc < 0.5 || spin < 0.5 {
			still = true
		}
		if acc >= 3 && spin > 4 {
			fast = true
		}
	}
	if !still || !fast {
		t.Fatalf("simulation never reached both extremes: still=%v fast=%v", still, fast)
	}
}

func TestSimulatedHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSimulated(1).Read(ctx)
	assert.Equal(t, context.Canceled, err)
}

// Package sensor reads accelerometer and gyroscope samples from the motion
// sensors, real or simulated.
package sensor

import (
	"context"
	"errors"
	"math"

	"github.com/jsphweid/mpusynth/model"
)

// MPU6050 scale factors for the ranges both sketches configure.
const (
	AccelLSBPerG8    = 4096.0
	GyroLSBPerDeg500 = 65.5

	StandardGravity = 9.80665
)

var ErrNoReading = errors.New("sensor: no reading available yet")

// Source supplies converted readings on demand.
type Source interface {
	Read(ctx context.Context) (model.Reading, error)
}

// RawSource supplies register values, the way the streamer forwards them.
type RawSource interface {
	ReadRaw(ctx context.Context) (model.RawReading, error)
}

// HorizontalMagnitude is the length of v projected on the x/y plane.
func HorizontalMagnitude(v model.Vector3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Magnitudes returns the totals the mapper consumes.
func Magnitudes(r model.Reading) (totalAcc, totalSpin float64) {
	return HorizontalMagnitude(r.Accel), HorizontalMagnitude(r.Gyro)
}

// Convert scales raw register values into m/s² and rad/s.
func Convert(raw model.RawReading, accelLSBPerG, gyroLSBPerDeg float64) model.Reading {
	acc := func(v int16) float64 {
		return float64(v) / accelLSBPerG * StandardGravity
	}
	gyr := func(v int16) float64 {
		return float64(v) / gyroLSBPerDeg * math.Pi / 180
	}
	return model.Reading{
		Accel: model.Vector3{X: acc(raw.Ax), Y: acc(raw.Ay), Z: acc(raw.Az)},
		Gyro:  model.Vector3{X: gyr(raw.Gx), Y: gyr(raw.Gy), Z: gyr(raw.Gz)},
	}
}

// ConvertMicro scales readings already in µg and µ°/s, as the TinyGo
// mpu6050 driver returns them, into m/s² and rad/s.
func ConvertMicro(accel, rot [3]int32) model.Reading {
	acc := func(v int32) float64 {
		return float64(v) / 1e6 * StandardGravity
	}
	gyr := func(v int32) float64 {
		return float64(v) / 1e6 * math.Pi / 180
	}
	return model.Reading{
		Accel: model.Vector3{X: acc(accel[0]), Y: acc(accel[1]), Z: acc(accel[2])},
		Gyro:  model.Vector3{X: gyr(rot[0]), Y: gyr(rot[1]), Z: gyr(rot[2])},
	}
}

// Unconvert is the inverse of Convert, saturating at the int16 range.
func Unconvert(r model.Reading, accelLSBPerG, gyroLSBPerDeg float64) model.RawReading {
	acc := func(v float64) int16 {
		return saturate(v / StandardGravity * accelLSBPerG)
	}
	gyr := func(v float64) int16 {
		return saturate(v * 180 / math.Pi * gyroLSBPerDeg)
	}
	return model.RawReading{
		Ax: acc(r.Accel.X), Ay: acc(r.Accel.Y), Az: acc(r.Accel.Z),
		Gx: gyr(r.Gyro.X), Gy: gyr(r.Gyro.Y), Gz: gyr(r.Gyro.Z),
	}
}

func saturate(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// RawAdapter exposes a Source as a RawSource.
type RawAdapter struct {
	Source Source
}

func (a RawAdapter) ReadRaw(ctx context.Context) (model.RawReading, error) {
	r, err := a.Source.Read(ctx)
	if err != nil {
		return model.RawReading{}, err
	}
	return Unconvert(r, AccelLSBPerG8, GyroLSBPerDeg500), nil
}

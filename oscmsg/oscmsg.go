// Package oscmsg defines the OSC addresses the streamer and bridge agree on.
package oscmsg

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"
	"github.com/jsphweid/mpusynth/model"
)

const (
	AddressAcc = "/acc"
	AddressGyr = "/gyr"
	AddressOpt = "/opt"
)

func Acc(raw model.RawReading) *osc.Message {
	msg := osc.NewMessage(AddressAcc)
	msg.Append(float32(raw.Ax))
	msg.Append(float32(raw.Ay))
	msg.Append(float32(raw.Az))
	return msg
}

func Gyr(raw model.RawReading) *osc.Message {
	msg := osc.NewMessage(AddressGyr)
	msg.Append(float32(raw.Gx))
	msg.Append(float32(raw.Gy))
	msg.Append(float32(raw.Gz))
	return msg
}

func Opt(value int) *osc.Message {
	msg := osc.NewMessage(AddressOpt)
	msg.Append(int32(value))
	return msg
}

// Float converts a numeric OSC argument.
func Float(arg interface{}) (float64, bool) {
	switch v := arg.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Floats converts every argument of msg, failing on the first non-numeric one.
func Floats(msg *osc.Message) ([]float64, error) {
	res := make([]float64, 0, len(msg.Arguments))
	for i, arg := range msg.Arguments {
		f, ok := Float(arg)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d is %T, not a number", msg.Address, i, arg)
		}
		res = append(res, f)
	}
	return res, nil
}

// Vector reads the first three arguments as x, y, z.
func Vector(msg *osc.Message) (model.Vector3, error) {
	vals, err := Floats(msg)
	if err != nil {
		return model.Vector3{}, err
	}
	if len(vals) < 3 {
		return model.Vector3{}, fmt.Errorf("%s: want 3 arguments, got %d", msg.Address, len(vals))
	}
	return model.Vector3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

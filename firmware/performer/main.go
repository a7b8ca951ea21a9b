//go:build tinygo && esp32

// Command performer is the on-board build: two MPU6050s, two buzzers and two
// WS2812 strips on an ESP32.
package main

import (
	"context"
	"errors"
	"image/color"
	"machine"
	"math/rand"
	"time"

	"github.com/jsphweid/mpusynth/clock"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/led"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/performer"
	"github.com/jsphweid/mpusynth/sensor"
	"tinygo.org/x/drivers/buzzer"
	"tinygo.org/x/drivers/mpu6050"
	"tinygo.org/x/drivers/ws2812"
)

const (
	melodyBuzzerPin = machine.GPIO25
	bassBuzzerPin   = machine.GPIO26
	melodyLEDPin    = machine.GPIO27
	bassLEDPin      = machine.GPIO33
)

// imu adapts the driver to sensor.Source. The driver scales for its power-on
// ranges of ±2 g and ±250 °/s, which cover the mapper's thresholds.
type imu struct {
	dev mpu6050.Device
}

func newIMU(bus *machine.I2C, addr uint16) (imu, error) {
	dev := mpu6050.New(bus)
	dev.Address = addr
	if !dev.Connected() {
		return imu{}, errors.New("not found")
	}
	if err := dev.Configure(); err != nil {
		return imu{}, err
	}
	return imu{dev: dev}, nil
}

func (m imu) Read(ctx context.Context) (model.Reading, error) {
	ax, ay, az := m.dev.ReadAcceleration()
	gx, gy, gz := m.dev.ReadRotation()
	return sensor.ConvertMicro([3]int32{ax, ay, az}, [3]int32{gx, gy, gz}), nil
}

// voiceBuzzer squares a buzzer from its own goroutine so Tone returns at once,
// like Arduino's tone(). The driver's own Tone blocks for the whole note.
type voiceBuzzer struct {
	dev  buzzer.Device
	freq chan int
}

func newBuzzer(pin machine.Pin) *voiceBuzzer {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	b := &voiceBuzzer{dev: buzzer.New(pin), freq: make(chan int, 1)}
	go b.run()
	return b
}

func (b *voiceBuzzer) run() {
	freq := 0
	for {
		if freq <= 0 {
			b.dev.Off()
			freq = <-b.freq
			continue
		}
		select {
		case freq = <-b.freq:
			continue
		default:
		}
		b.dev.Toggle()
		time.Sleep(time.Second / time.Duration(2*freq))
	}
}

func (b *voiceBuzzer) Tone(freq int) error {
	b.freq <- freq
	return nil
}

func (b *voiceBuzzer) NoTone() error {
	b.freq <- 0
	return nil
}

// strips shows each strip on the data pin matching its id.
type strips map[byte]*ws2812.Device

func (s strips) Show(strip *led.Strip) error {
	dev, ok := s[strip.ID]
	if !ok {
		return nil
	}
	return dev.WriteColors(strip.Pixels)
}

func newStrip(pin machine.Pin) *ws2812.Device {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	dev := ws2812.New(pin)
	return &dev
}

func halt(msg string, err error) {
	for {
		println(msg, err.Error())
		time.Sleep(time.Second)
	}
}

func main() {
	time.Sleep(100 * time.Millisecond)

	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		halt("i2c:", err)
	}

	var imus [2]imu
	for i, addr := range []uint16{constants.MelodySensorAddr, constants.BassSensorAddr} {
		dev, err := newIMU(bus, addr)
		if err != nil {
			halt("mpu6050:", err)
		}
		imus[i] = dev
	}

	r := strips{0: newStrip(melodyLEDPin), 1: newStrip(bassLEDPin)}
	off := make([]color.RGBA, constants.MelodyStripLen)
	r[0].WriteColors(off)
	r[1].WriteColors(off[:constants.BassStripLen])

	melody := &led.Output{
		Strip:    led.NewStrip(0, "melody", constants.MelodyStripLen),
		Animator: &led.MelodyAnimator{},
		Renderer: r,
	}
	bass := &led.Output{
		Strip:    led.NewStrip(1, "bass", constants.BassStripLen),
		Animator: &led.BassAnimator{},
		Renderer: r,
	}

	p := performer.New(
		performer.NewMelody(imus[0], newBuzzer(melodyBuzzerPin), melody),
		performer.NewBass(imus[1], newBuzzer(bassBuzzerPin), bass),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		clock.Real{},
	)
	if err := p.Run(context.Background()); err != nil {
		halt("performer:", err)
	}
}

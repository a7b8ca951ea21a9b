package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/led"
	"github.com/spf13/cobra"
)

var (
	sweepOctave   int
	sweepPitch    int
	sweepDuration int
	sweepPixels   int
	sweepLEDs     string
	sweepPort     string
)

func init() {
	f := sweepCmd.Flags()
	f.IntVar(&sweepOctave, "octave", 0, "octave choosing the colour family")
	f.IntVar(&sweepPitch, "pitch", 0, "pitch choosing the colour")
	f.IntVar(&sweepDuration, "duration", 500, "note length in ms; above 600 sweeps slowly")
	f.IntVar(&sweepPixels, "pixels", constants.MelodyStripLen, "strip length")
	f.StringVar(&sweepLEDs, "leds", "term", "LED output: term or serial")
	f.StringVar(&sweepPort, "led-port", "/dev/ttyACM0", "serial device driving the strip")
	rootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Plays a colour sweep on a strip",
	Long:  `Walks a note's colour up and down a strip at every brightness level.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var cl closers
		defer cl.Close()
		r, err := openRenderer(sweepLEDs, sweepPort, &cl)
		if err != nil {
			return err
		}
		err = playSweep(ctx, r, sweepPixels, sweepOctave, sweepPitch, sweepDuration)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func playSweep(ctx context.Context, r led.Renderer, pixels, octave, pitch, duration int) error {
	if pixels < 1 {
		return fmt.Errorf("--pixels must be at least 1, got %d", pixels)
	}
	if r == nil {
		r = led.Discard{}
	}
	s := led.NewStrip(0, "sweep", pixels)
	return led.NewSweep(s, octave, pitch, duration).Play(ctx, r, nil)
}

package cmd

import (
	"context"
	"math/rand"
	"time"

	"github.com/jsphweid/mpusynth/clock"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/performer"
	"github.com/jsphweid/mpusynth/sensor"
	"github.com/jsphweid/mpusynth/tone"
	"github.com/spf13/cobra"
)

var (
	renderSeed    int64
	renderSeconds float64
	renderLEDs    string
	renderOut     outputFlags
)

// renderEpoch anchors the manual clock so a seed always renders the same
// file.
var renderEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func init() {
	f := renderCmd.Flags()
	f.Int64Var(&renderSeed, "seed", 1, "seed for the simulated sensors and note choices")
	f.Float64Var(&renderSeconds, "seconds", 60, "length of the rendering")
	f.StringVar(&renderLEDs, "leds", "none", "LED output: none or term")
	f.StringVar(&renderOut.dir, "out", constants.GetOutDir(), "output directory")
	f.IntVar(&renderOut.sampleRate, "sample-rate", 44100, "WAV sample rate")
	f.Float64Var(&renderOut.bpm, "bpm", 120, "tempo written to the MIDI file")
	f.StringVar(&renderOut.dynamo, "dynamo-endpoint", constants.GetDynamoEndpoint(), "DynamoDB endpoint for session summaries")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders a simulated performance to WAV and MIDI",
	Long: `Renders a performance of simulated sensors without waiting on the wall
clock. The same seed always gives the same notes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := render(cmd.Context(), renderSeed, time.Duration(renderSeconds*float64(time.Second)))
		return err
	},
}

func render(ctx context.Context, seed int64, length time.Duration) (model.Session, error) {
	var cl closers
	defer cl.Close()

	session := model.NewSession(time.Now(), seed)
	mLEDs, bLEDs, err := openLEDs(renderLEDs, "", &cl)
	if err != nil {
		return session, err
	}

	c := clock.NewManual(renderEpoch)
	mTone, bTone, tracks := record(c, tone.Multi{}, tone.Multi{})
	p := performer.New(
		performer.NewMelody(sensor.NewSimulated(seed), mTone, mLEDs),
		performer.NewBass(sensor.NewSimulated(seed+1), bTone, bLEDs),
		rand.New(rand.NewSource(seed+2)),
		c,
	)
	if err := p.Simulate(ctx, c, length); err != nil {
		return session, err
	}

	p.Summarise(&session, time.Now())
	if err := writeRecording(renderOut, session, renderEpoch, tracks); err != nil {
		return session, err
	}
	return session, saveSession(ctx, renderOut.dynamo, session)
}

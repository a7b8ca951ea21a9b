package cmd

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/jsphweid/mpusynth/clock"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/performer"
	"github.com/jsphweid/mpusynth/tone"
	"github.com/spf13/cobra"
)

var (
	performSensors sensorFlags
	performTone    string
	performMIDI    string
	performLEDs    string
	performLEDPort string
	performRecord  bool
	performOut     outputFlags
)

func init() {
	f := performCmd.Flags()
	f.StringVar(&performSensors.kind, "sensors", "sim", "sensor source: sim, serial or osc")
	f.Int64Var(&performSensors.seed, "seed", time.Now().UnixNano(), "seed for the simulated sensors and note choices")
	f.StringVar(&performSensors.melodyPort, "melody-port", "/dev/ttyUSB0", "serial device of the melody sensor")
	f.StringVar(&performSensors.bassPort, "bass-port", "/dev/ttyUSB1", "serial device of the bass sensor")
	f.StringVar(&performSensors.melodyOSC, "melody-osc", ":9000", "OSC listen address of the melody streamer")
	f.StringVar(&performSensors.bassOSC, "bass-osc", ":9001", "OSC listen address of the bass streamer")
	f.StringVar(&performTone, "tone", "log", "tone output: log, midi or speaker")
	f.StringVar(&performMIDI, "midi-port", "", "MIDI output name to match")
	f.StringVar(&performLEDs, "leds", "none", "LED output: none, term or serial")
	f.StringVar(&performLEDPort, "led-port", "/dev/ttyACM0", "serial device driving the strips")
	f.BoolVar(&performRecord, "record", false, "write the performance as WAV and MIDI")
	f.StringVar(&performOut.dir, "out", constants.GetOutDir(), "recording directory")
	f.IntVar(&performOut.sampleRate, "sample-rate", 44100, "recording sample rate")
	f.Float64Var(&performOut.bpm, "bpm", 120, "tempo written to the MIDI file")
	f.StringVar(&performOut.dynamo, "dynamo-endpoint", constants.GetDynamoEndpoint(), "DynamoDB endpoint for session summaries")
	rootCmd.AddCommand(performCmd)
}

var performCmd = &cobra.Command{
	Use:   "perform",
	Short: "Plays the sensors live",
	Long:  `Plays melody and bass from the sensors' motion until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return perform(ctx)
	},
}

func perform(ctx context.Context) error {
	var cl closers
	defer cl.Close()

	mSensor, bSensor, err := openSensors(performSensors, &cl)
	if err != nil {
		return err
	}
	mTone, bTone, err := openTones(performTone, performMIDI, &cl)
	if err != nil {
		return err
	}
	mLEDs, bLEDs, err := openLEDs(performLEDs, performLEDPort, &cl)
	if err != nil {
		return err
	}

	c := clock.Real{}
	started := c.Now()
	var tracks []*tone.Track
	if performRecord {
		mTone, bTone, tracks = record(c, mTone, bTone)
	}

	p := performer.New(
		performer.NewMelody(mSensor, mTone, mLEDs),
		performer.NewBass(bSensor, bTone, bLEDs),
		rand.New(rand.NewSource(performSensors.seed+2)),
		c,
	)
	if err := p.Run(ctx); err != nil {
		return err
	}

	session := model.NewSession(started, performSensors.seed)
	p.Summarise(&session, c.Now())
	if performRecord {
		if err := writeRecording(performOut, session, started, tracks); err != nil {
			return err
		}
	}
	return saveSession(context.Background(), performOut.dynamo, session)
}

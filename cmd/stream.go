package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/sensor"
	"github.com/jsphweid/mpusynth/streamer"
	"github.com/spf13/cobra"
)

var (
	streamSensors sensorFlags
	streamTarget  string
	streamPort1   int
	streamPort2   int
	streamWeb     string
)

func init() {
	f := streamCmd.Flags()
	f.StringVar(&streamSensors.kind, "sensor", "sim", "sensor source: sim or serial")
	f.Int64Var(&streamSensors.seed, "seed", 1, "seed for the simulated sensor")
	f.StringVar(&streamSensors.melodyPort, "port", "/dev/ttyUSB0", "serial device of the sensor")
	f.StringVar(&streamTarget, "target", constants.GetOSCTarget(), "host receiving the OSC stream")
	f.IntVar(&streamPort1, "port1", constants.GetOSCPort1(), "first OSC port")
	f.IntVar(&streamPort2, "port2", constants.GetOSCPort2(), "second OSC port")
	f.StringVar(&streamWeb, "web-addr", constants.GetWebAddr(), "address of the configuration page")
	rootCmd.AddCommand(streamCmd)
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Streams raw sensor readings over OSC",
	Long: `Streams one sensor's raw readings as /acc and /gyr to two OSC ports and
serves a page for changing the target host and the /opt mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return stream(ctx)
	},
}

func openRawSensor(f sensorFlags, cl *closers) (sensor.RawSource, error) {
	switch f.kind {
	case "sim":
		return sensor.NewSimulated(f.seed), nil
	case "serial":
		s, err := sensor.OpenSerial(f.melodyPort, constants.GetSerialBaud())
		if err != nil {
			return nil, err
		}
		cl.add(s)
		return sensor.RawAdapter{Source: s}, nil
	}
	return nil, errors.New("unknown sensor kind " + f.kind + " (want sim or serial)")
}

func stream(ctx context.Context) error {
	var cl closers
	defer cl.Close()

	src, err := openRawSensor(streamSensors, &cl)
	if err != nil {
		return err
	}
	s := streamer.New(src, streamTarget, streamPort1, streamPort2)

	srv := &http.Server{Addr: streamWeb, Handler: s.Router()}
	go func() {
		slog.Info("stream: web page", "addr", streamWeb)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stream: web page", "err", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	return s.Run(ctx)
}

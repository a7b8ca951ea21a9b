package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/jsphweid/mpusynth/bridge"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/midi"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
)

var (
	bridgeOSC  string
	bridgeWeb  string
	bridgeMIDI string
)

func init() {
	f := bridgeCmd.Flags()
	f.StringVar(&bridgeOSC, "osc-addr", constants.GetBridgeAddr(), "OSC listen address")
	f.StringVar(&bridgeWeb, "web-addr", constants.GetBridgeWebAddr(), "address serving /samples")
	f.StringVar(&bridgeMIDI, "midi-port", "loopMIDI", "MIDI output name to match")
	rootCmd.AddCommand(bridgeCmd)
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Turns a streamer's OSC into MIDI",
	Long: `Listens for /gyr, /acc and /opt from a streamer and plays MIDI notes or
controller changes depending on the mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runBridge(ctx)
	},
}

func runBridge(ctx context.Context) error {
	defer gomidi.CloseDriver()
	send, out, err := midi.OpenOut(bridgeMIDI)
	if err != nil {
		return err
	}
	slog.Info("bridge: midi output", "port", out.String())

	b := bridge.New(send)
	srv := &http.Server{Addr: bridgeWeb, Handler: b.Handler()}
	go func() {
		slog.Info("bridge: samples", "addr", bridgeWeb)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("bridge: samples", "err", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	return b.Listen(ctx, bridgeOSC)
}

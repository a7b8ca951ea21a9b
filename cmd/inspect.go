package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/mpusynth/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a rendered MIDI file",
	Long:  `Lists the tracks of a rendered MIDI file with their note counts and range.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(os.Stdout, args[0])
	},
}

func inspect(out io.Writer, path string) error {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	for i, tr := range s.Tracks {
		var name string
		var notes int
		var low, high uint8 = 127, 0
		var ch, key, vel uint8
		for _, ev := range tr {
			if ev.Message.GetMetaTrackName(&name) {
				continue
			}
			if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
				notes++
				if key < low {
					low = key
				}
				if key > high {
					high = key
				}
			}
		}
		if notes == 0 {
			low, high = 0, 0
		}
		fmt.Fprintf(out, "track %d %q: %d notes, keys %d-%d\n", i, name, notes, low, high)
	}
	return nil
}

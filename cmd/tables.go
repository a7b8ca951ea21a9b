package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jsphweid/mpusynth/chord"
	"github.com/jsphweid/mpusynth/mapper"
	"github.com/jsphweid/mpusynth/scale"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tablesCmd)
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Prints the note tables",
	Long:  `Prints the scale, harmonic and duration tables the voices play from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTables(os.Stdout)
	},
}

func printTables(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "octave\tpitch\thz\tmidi\tharmonics")
	for o := 0; o < scale.NumOctaves; o++ {
		for p := 0; p < scale.NumPitches; p++ {
			hz := scale.BbMajor.Frequency(o, p)
			key := "-"
			if k, ok := scale.MIDIKey(hz); ok {
				key = fmt.Sprint(k)
			}
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", o, p, hz, key, chord.Key(chord.BbMajor.Triad(p)))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "band\tindexes\tms")
	for _, b := range []struct {
		name string
		band mapper.Band
	}{
		{"short", mapper.ShortBand},
		{"mid", mapper.MidBand},
		{"long", mapper.LongBand},
	} {
		fmt.Fprintf(w, "%s\t[%d,%d)\t%v\n", b.name, b.band.Lo, b.band.Hi, scale.Durations[b.band.Lo:b.band.Hi])
	}
	return w.Flush()
}

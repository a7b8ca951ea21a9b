package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/cwbudde/wav"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/midi"
	"github.com/spf13/cobra"
)

var reportDir string

func init() {
	reportCmd.Flags().StringVar(&reportDir, "out", constants.GetOutDir(), "recording directory")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarises the recordings",
	Long:  `Counts the recordings in the output directory and how much audio they hold.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := analyzeRecordings(reportDir)
		if err != nil {
			return err
		}
		r.print(os.Stdout)
		return nil
	},
}

var recordingName = regexp.MustCompile(`^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}\.(wav|mid)$`)

type recordingsReport struct {
	numWAV    int
	numMIDI   int
	numBytes  int64
	audio     time.Duration
	numTracks int
	broken    []string
}

func wavLength(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s is not a wav file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return 0, err
	}
	frames := len(buf.Data) / buf.Format.NumChannels
	return time.Duration(frames) * time.Second / time.Duration(buf.Format.SampleRate), nil
}

func analyzeRecordings(dir string) (recordingsReport, error) {
	var r recordingsReport
	entries, err := os.ReadDir(dir)
	if err != nil {
		return r, fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !recordingName.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return r, err
		}
		r.numBytes += info.Size()
		path := filepath.Join(dir, e.Name())

		switch filepath.Ext(e.Name()) {
		case ".wav":
			r.numWAV++
			d, err := wavLength(path)
			if err != nil {
				r.broken = append(r.broken, e.Name())
				continue
			}
			r.audio += d
		case ".mid":
			r.numMIDI++
			s, err := midi.ReadMidiFile(path)
			if err != nil {
				r.broken = append(r.broken, e.Name())
				continue
			}
			r.numTracks += len(s.Tracks)
		}
	}
	return r, nil
}

func (r recordingsReport) print(w io.Writer) {
	fmt.Fprintf(w, "wav files:   %d (%v of audio)\n", r.numWAV, r.audio)
	fmt.Fprintf(w, "midi files:  %d (%d tracks)\n", r.numMIDI, r.numTracks)
	fmt.Fprintf(w, "total bytes: %d\n", r.numBytes)
	for _, b := range r.broken {
		fmt.Fprintf(w, "unreadable:  %s\n", b)
	}
}

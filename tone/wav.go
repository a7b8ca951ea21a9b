//go:build !tinygo

package tone

import (
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
	"github.com/jsphweid/mpusynth/sample"
)

const wavAmp = 0.3

// WriteWAV renders the tracks as square waves, one channel per track,
// starting at origin.
func WriteWAV(path string, sampleRate int, origin time.Time, tracks ...*Track) error {
	if len(tracks) == 0 {
		return fmt.Errorf("write wav: no tracks")
	}
	_, last := span(tracks)
	frames := int(last.Sub(origin).Seconds() * float64(sampleRate))
	if frames < 1 {
		frames = 1
	}
	channels := len(tracks)
	data := make([]float32, frames*channels)

	for ch, tr := range tracks {
		osc := sample.NewSquare(sampleRate, wavAmp)
		for _, seg := range tr.Segments() {
			start := int(seg.Start.Sub(origin).Seconds() * float64(sampleRate))
			end := int(seg.End.Sub(origin).Seconds() * float64(sampleRate))
			if start < 0 {
				start = 0
			}
			if end > frames {
				end = frames
			}
			osc.SetFrequency(seg.Freq)
			for i := start; i < end; i++ {
				data[i*channels+ch] = osc.Next()
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: channels,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return enc.Close()
}

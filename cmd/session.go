package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jsphweid/mpusynth/db"
	"github.com/jsphweid/mpusynth/model"
	"github.com/jsphweid/mpusynth/tone"
	"github.com/jsphweid/mpusynth/util"
)

type outputFlags struct {
	dir        string
	sampleRate int
	bpm        float64
	dynamo     string
}

// writeRecording renders the tracks to <session id>.wav and .mid.
func writeRecording(o outputFlags, s model.Session, origin time.Time, tracks []*tone.Track) error {
	dir, err := util.EnsureOutputDir(o.dir)
	if err != nil {
		return err
	}
	wavPath := filepath.Join(dir, s.ID.String()+".wav")
	if err := tone.WriteWAV(wavPath, o.sampleRate, origin, tracks...); err != nil {
		return err
	}
	midPath := filepath.Join(dir, s.ID.String()+".mid")
	if err := tone.WriteSMF(midPath, o.bpm, origin, tracks...); err != nil {
		return err
	}
	slog.Info("recording written", "wav", wavPath, "mid", midPath)
	return nil
}

func saveSession(ctx context.Context, endpoint string, s model.Session) error {
	if endpoint == "" {
		return nil
	}
	store, err := db.New(endpoint)
	if err != nil {
		return err
	}
	if err := store.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("session %s not stored: %w", s.ID, err)
	}
	slog.Info("session stored", "id", s.ID, "melody_notes", s.MelodyNotes, "bass_notes", s.BassNotes)
	return nil
}

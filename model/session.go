package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID          uuid.UUID
	Started     time.Time
	Ended       time.Time
	Seed        int64
	MelodyNotes int
	BassNotes   int
}

func NewSession(started time.Time, seed int64) Session {
	return Session{ID: uuid.New(), Started: started, Seed: seed}
}

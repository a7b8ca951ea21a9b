package util

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsphweid/mpusynth/constants"
	"golang.org/x/exp/constraints"
)

// InitLogger configures the shared slog logger. Debug mode lowers the level
// and adds file:line to every record.
func InitLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

// EnsureOutputDir creates the recording directory if it is missing and
// returns its path.
func EnsureOutputDir(dir string) (string, error) {
	if dir == "" {
		dir = constants.GetOutDir()
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	return filepath.Clean(dir), nil
}

func Abs[A constraints.Signed | constraints.Float](n A) A {
	if n < 0 {
		return -n
	}
	return n
}

func Clamp[A constraints.Ordered](n, lo, hi A) A {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// FloorMod is the modulo whose result takes the sign of the divisor.
func FloorMod[A constraints.Integer](a, b A) A {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

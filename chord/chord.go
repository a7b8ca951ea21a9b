// Package chord keeps the bass voice harmonically tied to the melody.
package chord

import (
	"fmt"
	"strings"
)

// Harmonics maps a melody pitch index to three bass pitch candidates. The
// silence row reuses the row of pitch 5.
type Harmonics [8][3]int

var BbMajor = Harmonics{
	{2, 4, 6}, {3, 5, 0}, {4, 6, 1},
	{5, 0, 2}, {6, 1, 3}, {0, 2, 4},
	{1, 3, 5}, {0, 2, 4},
}

func (h *Harmonics) Triad(melodyPitch int) [3]int {
	return h[melodyPitch]
}

func (h *Harmonics) Contains(melodyPitch, bassPitch int) bool {
	for _, p := range h[melodyPitch] {
		if p == bassPitch {
			return true
		}
	}
	return false
}

// Key renders a triad as "a-b-c", used when printing tables.
func Key(triad [3]int) string {
	parts := make([]string, len(triad))
	for i, p := range triad {
		parts[i] = fmt.Sprintf("%v", p)
	}
	return strings.Join(parts, "-")
}

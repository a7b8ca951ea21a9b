package sensor

import (
	"context"
	"math/rand"
	"sync"

	"github.com/jsphweid/mpusynth/model"
)

// Simulated is a seeded random walk standing in for a handheld sensor. It
// drifts between stillness and vigorous motion so every mapper branch gets
// exercised.
type Simulated struct {
	mu     sync.Mutex
	r      *rand.Rand
	energy float64
	accel  model.Vector3
	gyro   model.Vector3
}

func NewSimulated(seed int64) *Simulated {
	return &Simulated{r: rand.New(rand.NewSource(seed)), energy: 1}
}

func (s *Simulated) step(v, spread float64) float64 {
	return 0.8*v + s.r.NormFloat64()*spread
}

func (s *Simulated) Read(ctx context.Context) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.energy += s.r.NormFloat64() * 0.3
	if s.energy < 0 {
		s.energy = -s.energy
	}
	if s.energy > 4 {
		s.energy = 8 - s.energy
	}

	s.accel.X = s.step(s.accel.X, s.energy)
	s.accel.Y = s.step(s.accel.Y, s.energy)
	s.accel.Z = StandardGravity + s.r.NormFloat64()*0.2
	s.gyro.X = s.step(s.gyro.X, s.energy)
	s.gyro.Y = s.step(s.gyro.Y, s.energy)
	s.gyro.Z = s.step(s.gyro.Z, s.energy/2)

	return model.Reading{Accel: s.accel, Gyro: s.gyro, Temp: 24 + s.r.Float64()}, nil
}

func (s *Simulated) ReadRaw(ctx context.Context) (model.RawReading, error) {
	return RawAdapter{Source: s}.ReadRaw(ctx)
}

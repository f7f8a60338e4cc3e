// Package generator simulates spins on a machine with a known hit rate.
package generator

import (
	"math/rand"

	"github.com/verte-zerg/settei/internal/model"
)

// Generator produces random spin outcomes.
type Generator struct {
	rnd *rand.Rand
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Spin reports whether a single spin hits with probability p.
func (g *Generator) Spin(p float64) bool {
	return g.rnd.Float64() < p
}

// Play runs spins spins and returns the number of hits.
func (g *Generator) Play(p float64, spins int) int {
	hits := 0
	for i := 0; i < spins; i++ {
		if g.Spin(p) {
			hits++
		}
	}
	return hits
}

// Trajectory plays spins spins and records the running counts every step
// spins, always ending with the final count.
func (g *Generator) Trajectory(p float64, spins, step int) []model.Observation {
	if spins <= 0 {
		return nil
	}
	if step <= 0 || step > spins {
		step = spins
	}
	out := make([]model.Observation, 0, spins/step+1)
	hits := 0
	for i := 1; i <= spins; i++ {
		if g.Spin(p) {
			hits++
		}
		if i%step == 0 || i == spins {
			out = append(out, model.Observation{Spins: i, Hits: hits})
		}
	}
	return out
}

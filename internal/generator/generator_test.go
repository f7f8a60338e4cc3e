package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayIsDeterministicForSeed(t *testing.T) {
	a := NewSeeded(42).Play(1/24.51, 5000)
	b := NewSeeded(42).Play(1/24.51, 5000)
	assert.Equal(t, a, b)
}

func TestPlayEdgeProbabilities(t *testing.T) {
	g := NewSeeded(1)
	assert.Equal(t, 0, g.Play(0, 100))
	assert.Equal(t, 100, g.Play(1, 100))
}

func TestPlayRoughlyMatchesRate(t *testing.T) {
	hits := NewSeeded(7).Play(0.05, 100000)
	assert.InDelta(t, 5000, hits, 500)
}

func TestTrajectoryCheckpoints(t *testing.T) {
	traj := NewSeeded(3).Trajectory(0.1, 250, 100)
	require.Len(t, traj, 3)
	prevHits := 0
	for i, obs := range traj {
		assert.Equal(t, []int{100, 200, 250}[i], obs.Spins)
		assert.GreaterOrEqual(t, obs.Hits, prevHits)
		assert.LessOrEqual(t, obs.Hits, obs.Spins)
		prevHits = obs.Hits
	}

	assert.Nil(t, NewSeeded(3).Trajectory(0.1, 0, 10))

	single := NewSeeded(3).Trajectory(0.1, 30, 0)
	require.Len(t, single, 1)
	assert.Equal(t, 30, single[0].Spins)
}

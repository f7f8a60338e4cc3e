// Package stats contains the binomial inference and its text rendering.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/verte-zerg/settei/internal/model"
)

// Likelihood returns the binomial probability of hits successes in spins trials
// with success probability p. Invalid input yields 0.
func Likelihood(spins, hits int, p float64) float64 {
	if spins < 0 || hits < 0 || hits > spins {
		return 0
	}
	if !(p > 0 && p < 1) {
		return 0
	}
	n, k := float64(spins), float64(hits)
	logL := combin.LogGeneralizedBinomial(n, k) + k*math.Log(p) + (n-k)*math.Log1p(-p)
	return math.Exp(logL)
}

// Posterior conditions prior on obs. The prior is returned as a copy when there
// is nothing to condition on or every setting has zero weight.
func Posterior(obs model.Observation, settings []model.Setting, prior model.Prior) model.Posterior {
	if obs.Spins <= 0 {
		return copyPrior(prior)
	}
	weights := make([]float64, len(settings))
	for i, s := range settings {
		weights[i] = prior[s.Name] * Likelihood(obs.Spins, obs.Hits, s.Prob())
	}
	total := floats.Sum(weights)
	if !(total > 0) || math.IsInf(total, 0) {
		return copyPrior(prior)
	}
	floats.Scale(1/total, weights)
	out := make(model.Posterior, len(settings))
	for i, s := range settings {
		out[s.Name] = weights[i]
	}
	return out
}

// GoalProbability sums posterior mass over the goal members.
func GoalProbability(post model.Posterior, members []string) float64 {
	var sum float64
	for _, name := range members {
		sum += post[name]
	}
	return sum
}

// ObservedRateOf returns spins per hit, or an invalid rate before the first hit.
func ObservedRateOf(obs model.Observation) model.ObservedRate {
	if obs.Hits <= 0 {
		return model.ObservedRate{}
	}
	return model.ObservedRate{Denominator: float64(obs.Spins) / float64(obs.Hits), Valid: true}
}

func copyPrior(prior model.Prior) model.Posterior {
	out := make(model.Posterior, len(prior))
	for k, v := range prior {
		out[k] = v
	}
	return out
}

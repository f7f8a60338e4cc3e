// Package rating turns goal probabilities into star ratings and commentary.
package rating

import "github.com/verte-zerg/settei/internal/model"

const (
	escalateGoal = 0.08
	escalateDiff = 1.3
	cautionRatio = 0.7
)

// Evaluate rates a goal probability against its alternative for the given sample size.
func Evaluate(th model.Thresholds, goalProb, altProb float64, sample int) model.Rating {
	diff := goalProb - altProb
	if sample < th.MinSample {
		// Few spins cap the rating however strong the raw signal looks.
		if goalProb >= th.MidGoal || diff >= th.MidDiff {
			return model.Rating{Stars: 3, Status: model.StatusSampleStrong}
		}
		return model.Rating{Stars: 1, Status: model.StatusSampleLow}
	}

	stars := baseStars(th, goalProb, diff)
	r := model.Rating{Stars: stars, Status: model.StatusOK}
	if sampleRatio(th, sample) < cautionRatio && r.Stars > 1 {
		r.Stars--
		r.Status = model.StatusSampleCaution
	}
	return r
}

func baseStars(th model.Thresholds, goalProb, diff float64) int {
	switch {
	case goalProb >= th.HighGoal || diff >= th.HighDiff:
		if goalProb >= th.HighGoal+escalateGoal || diff >= th.HighDiff*escalateDiff {
			return 5
		}
		return 4
	case goalProb >= th.MidGoal || diff >= th.MidDiff:
		return 3
	case goalProb < th.LowGoal:
		if diff < 0 {
			return 1
		}
		return 2
	default:
		return 2
	}
}

func sampleRatio(th model.Thresholds, sample int) float64 {
	rec := th.Recommended()
	if rec <= 0 {
		return 1
	}
	return float64(sample) / float64(rec)
}

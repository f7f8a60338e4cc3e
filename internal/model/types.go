// Package model defines shared data structures.
package model

import "fmt"

// Setting is a hidden machine configuration with a fixed hit rate of 1/Denominator.
type Setting struct {
	Name        string
	Denominator float64
}

// Prob returns the per-spin hit probability.
func (s Setting) Prob() float64 {
	if s.Denominator == 0 {
		return 0
	}
	return 1 / s.Denominator
}

// Observation is a pair of spin and hit counts entered by the player.
type Observation struct {
	Spins int
	Hits  int
}

// Prior maps setting names to non-negative weights.
type Prior map[string]float64

// Posterior maps setting names to probabilities.
type Posterior map[string]float64

// Thresholds configures how a goal probability is rated.
type Thresholds struct {
	HighGoal          float64
	HighDiff          float64
	MidGoal           float64
	MidDiff           float64
	LowGoal           float64
	MinSample         int
	RecommendedSample int
}

// Recommended returns the recommended sample, falling back to MinSample.
func (t Thresholds) Recommended() int {
	if t.RecommendedSample > 0 {
		return t.RecommendedSample
	}
	return t.MinSample
}

// Goal is a named union of settings treated as a success condition.
type Goal struct {
	Code       string
	Label      string
	Members    []string
	Thresholds Thresholds
}

// Status tags how a rating was reached.
type Status string

// Rating status tags. StatusHigh, StatusMid and StatusLow are reserved band
// tags: ratings report their band through Stars and never carry them.
const (
	StatusOK            Status = "ok"
	StatusHigh          Status = "high"
	StatusMid           Status = "mid"
	StatusLow           Status = "low"
	StatusSampleLow     Status = "sample_low"
	StatusSampleStrong  Status = "sample_strong"
	StatusSampleCaution Status = "sample_caution"
)

// Rating is a 1-5 star confidence score with the status that produced it.
type Rating struct {
	Stars  int
	Status Status
}

// String renders a rating as a row of filled and empty stars.
func (r Rating) String() string {
	out := make([]rune, 0, 5)
	for i := 1; i <= 5; i++ {
		if i <= r.Stars {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}

// NoData is shown in place of the observed rate before the first hit.
const NoData = "no data"

// ObservedRate is spins per hit, valid only once at least one hit is recorded.
type ObservedRate struct {
	Denominator float64
	Valid       bool
}

func (r ObservedRate) String() string {
	if !r.Valid {
		return NoData
	}
	return fmt.Sprintf("1/%.1f", r.Denominator)
}

// GoalResult carries the evaluation of a single goal.
type GoalResult struct {
	Goal        Goal
	Probability float64
	Alt         float64
	Rating      Rating
	Comment     string
	Note        string
}

// Report is the full result of evaluating one observation.
type Report struct {
	Observation  Observation
	Settings     []Setting
	Posterior    Posterior
	Broad        GoalResult
	Narrow       GoalResult
	ObservedRate ObservedRate
	Alignment    string
	Share        string
}

// EvalConfig defines options for the eval command.
type EvalConfig struct {
	Spins int
	Hits  int
	Table bool
}

// SimConfig defines options for a Monte-Carlo simulation run.
type SimConfig struct {
	Setting string
	Spins   int
	Step    int
	Trials  int
	Workers int
	Seed    int64
}

// Stage is a narrative bucket derived from the sample size.
type Stage string

// Commentary stages.
const (
	StageEarly Stage = "early"
	StageMid   Stage = "mid"
	StageLate  Stage = "late"
)

// StageBounds holds the exclusive upper sample sizes of the early and mid stages.
type StageBounds struct {
	Early int
	Mid   int
}

// TemplateBank holds commentary phrases keyed by stage and star rating.
type TemplateBank map[Stage]map[int][]string

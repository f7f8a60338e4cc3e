// Package report assembles the evaluation of one observation.
package report

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/settei/internal/config"
	"github.com/verte-zerg/settei/internal/model"
	"github.com/verte-zerg/settei/internal/rating"
	"github.com/verte-zerg/settei/internal/stats"
)

// Builder evaluates observations against a validated machine. It holds no
// mutable state and may be shared across goroutines.
type Builder struct {
	machine     config.Machine
	commentator rating.Commentator
}

// NewBuilder validates the machine and returns a Builder for it.
func NewBuilder(m config.Machine) (*Builder, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		machine:     m,
		commentator: rating.NewCommentator(m.Stages, m.Templates),
	}, nil
}

// Machine returns the configuration the builder evaluates against.
func (b *Builder) Machine() config.Machine {
	return b.machine
}

// Evaluate runs the full inference and rating pipeline for spins and hits.
func (b *Builder) Evaluate(spins, hits int) model.Report {
	obs := model.Observation{Spins: spins, Hits: hits}
	post := stats.Posterior(obs, b.machine.Settings, b.machine.Prior)

	broadProb := stats.GoalProbability(post, b.machine.Broad.Members)
	narrowProb := stats.GoalProbability(post, b.machine.Narrow.Members)

	r := model.Report{
		Observation:  obs,
		Settings:     append([]model.Setting(nil), b.machine.Settings...),
		Posterior:    post,
		Broad:        b.goalResult(b.machine.Broad, broadProb, spins),
		Narrow:       b.goalResult(b.machine.Narrow, narrowProb, spins),
		ObservedRate: stats.ObservedRateOf(obs),
		Alignment:    rating.Alignment(broadProb, narrowProb),
	}
	r.Narrow.Note = joinNotes(r.Narrow.Note, r.Alignment)
	r.Share = ShareText(r)
	return r
}

func (b *Builder) goalResult(g model.Goal, prob float64, sample int) model.GoalResult {
	alt := 1 - prob
	rt := rating.Evaluate(g.Thresholds, prob, alt, sample)
	res := model.GoalResult{
		Goal:        g,
		Probability: prob,
		Alt:         alt,
		Rating:      rt,
		Comment:     b.commentator.Comment(g, prob, alt, sample, rt),
	}
	if sample < g.Thresholds.MinSample {
		res.Note = fmt.Sprintf("Low confidence, sample is small (recommended %dG).", g.Thresholds.Recommended())
	}
	return res
}

// ShareText renders the fixed-order plain-text summary of a report.
func ShareText(r model.Report) string {
	lines := []string{
		fmt.Sprintf("Total spins: %dG", r.Observation.Spins),
		fmt.Sprintf("Hits: %d", r.Observation.Hits),
		fmt.Sprintf("Observed rate: %s", r.ObservedRate),
		goalLine(r.Broad),
		goalLine(r.Narrow),
		fmt.Sprintf("Comment (%s): %s", r.Broad.Goal.Label, r.Broad.Comment),
		fmt.Sprintf("Comment (%s): %s", r.Narrow.Goal.Label, r.Narrow.Comment),
	}
	return strings.Join(lines, "\n")
}

func goalLine(g model.GoalResult) string {
	return fmt.Sprintf("%s chance: %.1f%% (★%d)", g.Goal.Label, g.Probability*100, g.Rating.Stars)
}

func joinNotes(notes ...string) string {
	kept := make([]string, 0, len(notes))
	for _, n := range notes {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, " ")
}

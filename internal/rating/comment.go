package rating

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/settei/internal/model"
)

// Strength is a qualitative reading of a goal probability.
type Strength string

// Strength levels.
const (
	StrengthStrong Strength = "strong"
	StrengthGood   Strength = "good"
	StrengthEven   Strength = "even"
	StrengthWeak   Strength = "weak"
)

// Sufficiency describes how close the sample is to the recommended size.
type Sufficiency string

// Sufficiency levels.
const (
	SufficiencyEnough Sufficiency = "enough"
	SufficiencyAlmost Sufficiency = "almost"
	SufficiencyThin   Sufficiency = "thin"
)

// Commentator composes commentary from a template bank.
type Commentator struct {
	stages    model.StageBounds
	templates model.TemplateBank
}

// NewCommentator returns a Commentator for the given stage bounds and bank.
func NewCommentator(stages model.StageBounds, templates model.TemplateBank) Commentator {
	return Commentator{stages: stages, templates: templates}
}

// Stage buckets the sample size.
func (c Commentator) Stage(sample int) model.Stage {
	switch {
	case sample < c.stages.Early:
		return model.StageEarly
	case sample < c.stages.Mid:
		return model.StageMid
	default:
		return model.StageLate
	}
}

// Base returns the template sentence for a stage and star count, falling back
// to the three-star entry of the same stage.
func (c Commentator) Base(stage model.Stage, stars int) string {
	bucket := c.templates[stage]
	phrases, ok := bucket[stars]
	if !ok || len(phrases) == 0 {
		phrases = bucket[3]
	}
	if len(phrases) > 2 {
		phrases = phrases[:2]
	}
	return strings.TrimSpace(strings.Join(phrases, " "))
}

// Comment builds the commentary for one rated goal.
func (c Commentator) Comment(goal model.Goal, goalProb, altProb float64, sample int, r model.Rating) string {
	th := goal.Thresholds
	base := c.Base(c.Stage(sample), r.Stars)
	strength := StrengthOf(th, goalProb, altProb)
	remaining := th.Recommended() - sample
	if remaining < 0 {
		remaining = 0
	}

	var note string
	switch SufficiencyOf(th, sample) {
	case SufficiencyThin:
		note = fmt.Sprintf("needs more data, %d more spins for better accuracy.", remaining)
		switch strength {
		case StrengthStrong:
			note = "Strong so far, but " + note
		case StrengthGood:
			note = "Promising so far, but " + note
		default:
			note = capitalize(note)
		}
	case SufficiencyAlmost:
		note = fmt.Sprintf("%d spins until recommended sample.", remaining)
	case SufficiencyEnough:
		if strength == StrengthWeak {
			note = "Sufficient data, unlikely to recover."
		}
	}

	switch r.Status {
	case model.StatusSampleLow:
		note = fmt.Sprintf("Sample too small to judge yet (recommended %dG).", th.Recommended())
	case model.StatusSampleStrong:
		note = fmt.Sprintf("Strong signal but insufficient sample, %d more spins.", remaining)
	case model.StatusSampleCaution:
		if note == "" && (strength == StrengthStrong || strength == StrengthGood) {
			note = "Looks good, but the sample is still small. Stay cautious."
		}
	}

	if note == "" {
		return base
	}
	return strings.TrimSpace(base + " " + note)
}

// StrengthOf classifies a goal probability with the same bands Evaluate uses.
func StrengthOf(th model.Thresholds, goalProb, altProb float64) Strength {
	diff := goalProb - altProb
	switch {
	case goalProb >= th.HighGoal || diff >= th.HighDiff:
		return StrengthStrong
	case goalProb >= th.MidGoal || diff >= th.MidDiff:
		return StrengthGood
	case goalProb < th.LowGoal:
		return StrengthWeak
	default:
		return StrengthEven
	}
}

// SufficiencyOf compares the sample to the recommended size.
func SufficiencyOf(th model.Thresholds, sample int) Sufficiency {
	ratio := sampleRatio(th, sample)
	switch {
	case ratio >= 1:
		return SufficiencyEnough
	case ratio >= cautionRatio:
		return SufficiencyAlmost
	default:
		return SufficiencyThin
	}
}

// Alignment compares the broad and narrow goal probabilities. The result is
// advisory and never changes a rating.
func Alignment(broad, narrow float64) string {
	switch {
	case broad < 0.25:
		return "Overall weak: high settings look unlikely."
	case broad >= 0.5 && narrow < 0.25:
		return "Mid tier suspected: the high group holds up but the top settings do not."
	case broad-narrow >= 0.15 && broad >= 0.35:
		return "Doubt the middle tier: part of the high-group mass sits below the top settings."
	case narrow >= 0.5:
		return "Strong upper tier."
	case narrow >= 0.35 && broad >= 0.5:
		return "Upper tier plausible too."
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

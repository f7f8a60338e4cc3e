package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/settei/internal/config"
	"github.com/verte-zerg/settei/internal/model"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(config.DefaultMachine())
	require.NoError(t, err)
	return b
}

func TestNewBuilderRejectsInvalidMachine(t *testing.T) {
	m := config.DefaultMachine()
	m.Settings[0].Denominator = 0.5
	_, err := NewBuilder(m)
	require.ErrorIs(t, err, config.ErrInvalidMachine)
}

func TestEvaluateZeroSpins(t *testing.T) {
	r := newBuilder(t).Evaluate(0, 0)
	for _, s := range r.Settings {
		assert.Equal(t, 0.2, r.Posterior[s.Name])
	}
	assert.False(t, r.ObservedRate.Valid)
	assert.Equal(t, model.NoData, r.ObservedRate.String())
	assert.InDelta(t, 0.6, r.Broad.Probability, 1e-12)
	assert.InDelta(t, 0.4, r.Narrow.Probability, 1e-12)
	// The uniform prior already favours 456 over the rest by 0.2.
	assert.Equal(t, model.Rating{Stars: 3, Status: model.StatusSampleStrong}, r.Broad.Rating)
	assert.Contains(t, r.Share, "Observed rate: no data")
}

func TestEvaluateTypicalSession(t *testing.T) {
	r := newBuilder(t).Evaluate(1000, 35)
	assert.Greater(t, r.Broad.Probability, 0.5)
	assert.InDelta(t, 1-r.Broad.Probability, r.Broad.Alt, 1e-12)
	assert.Equal(t, "1/28.6", r.ObservedRate.String())

	// 0.762 vs 0.238: high band escalated by diff.
	assert.Equal(t, model.Rating{Stars: 5, Status: model.StatusOK}, r.Broad.Rating)
	// 0.386 vs 0.614: between low-goal and mid-goal.
	assert.Equal(t, model.Rating{Stars: 2, Status: model.StatusOK}, r.Narrow.Rating)

	assert.Equal(t, r.Alignment, r.Narrow.Note)
	assert.True(t, strings.HasPrefix(r.Alignment, "Doubt the middle tier"), "alignment: %q", r.Alignment)
	assert.Empty(t, r.Broad.Note)
}

func TestEvaluateLowSampleNotes(t *testing.T) {
	r := newBuilder(t).Evaluate(50, 5)
	assert.Contains(t, []int{1, 3}, r.Broad.Rating.Stars)
	assert.Contains(t, []model.Status{model.StatusSampleLow, model.StatusSampleStrong}, r.Broad.Rating.Status)
	assert.Equal(t, "Low confidence, sample is small (recommended 220G).", r.Broad.Note)
	assert.True(t, strings.HasPrefix(r.Narrow.Note, "Low confidence, sample is small (recommended 240G)."))
}

func TestEvaluateIsIdempotent(t *testing.T) {
	b := newBuilder(t)
	first := b.Evaluate(2400, 95)
	second := b.Evaluate(2400, 95)
	assert.Equal(t, first, second)
}

func TestEvaluateDoesNotAliasMachine(t *testing.T) {
	b := newBuilder(t)
	r := b.Evaluate(0, 0)
	r.Posterior["1"] = 1
	r.Settings[0].Denominator = 2
	again := b.Evaluate(0, 0)
	assert.Equal(t, 0.2, again.Posterior["1"])
	assert.Equal(t, 38.15, again.Settings[0].Denominator)
}

func TestShareTextOrder(t *testing.T) {
	r := newBuilder(t).Evaluate(1000, 35)
	lines := strings.Split(r.Share, "\n")
	require.Len(t, lines, 7)
	prefixes := []string{
		"Total spins: 1000G",
		"Hits: 35",
		"Observed rate: 1/28.6",
		"456 chance: 76.2% (★5)",
		"56 chance: 38.6% (★2)",
		"Comment (456): ",
		"Comment (56): ",
	}
	for i, p := range prefixes {
		assert.True(t, strings.HasPrefix(lines[i], p), "line %d: %q should start with %q", i, lines[i], p)
	}
}

func TestRender(t *testing.T) {
	r := newBuilder(t).Evaluate(100, 4)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, true))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, r.Share))
	assert.Contains(t, out, "Posterior by setting")
	assert.Contains(t, out, "Note (456): Low confidence")

	buf.Reset()
	require.NoError(t, Render(&buf, r, false))
	assert.Equal(t, r.Share+"\n", buf.String())
}

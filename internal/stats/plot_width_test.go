package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlotWidthFor(t *testing.T) {
	assert.Equal(t, 80-len("100%")-3, PlotWidthFor(80))
	assert.Equal(t, minPlotWidth, PlotWidthFor(0))
	assert.Equal(t, minPlotWidth, PlotWidthFor(12))
}

func TestAxisLabels(t *testing.T) {
	assert.Equal(t, []string{"100%", "75%", "50%", "25%", "0%"}, axisLabels(5))
	assert.Equal(t, []string{"100%", "0%"}, axisLabels(2))
}

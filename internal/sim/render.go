package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/settei/internal/model"
	"github.com/verte-zerg/settei/internal/stats"
)

const plotHeight = 10

// Render prints the recorded path as a plot and the trial distribution as tables.
func Render(w io.Writer, res Result, settings []model.Setting, broadLabel, narrowLabel string, width int, useColor bool) error {
	if _, err := fmt.Fprintf(w, "Setting %s (1/%.2f), %d spins, %d trials, seed %d\n\n",
		res.Setting.Name, res.Setting.Denominator, res.Config.Spins, res.Config.Trials, res.Config.Seed); err != nil {
		return err
	}

	broad := make([]float64, len(res.Path))
	narrow := make([]float64, len(res.Path))
	for i, pt := range res.Path {
		broad[i] = pt.Broad
		narrow[i] = pt.Narrow
	}
	plotWidth := 0
	if width > 0 {
		plotWidth = stats.PlotWidthFor(width)
	}
	if err := stats.PlotProbabilities(w, "Goal probability along one session", []stats.Series{
		{Name: broadLabel, Values: broad},
		{Name: narrowLabel, Values: narrow},
	}, plotWidth, plotHeight, useColor); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Posterior trend by setting"); err != nil {
		return err
	}
	trendRows := make([][]string, 0, len(settings))
	for _, s := range settings {
		series := make([]float64, len(res.Path))
		for i, pt := range res.Path {
			series[i] = pt.Posterior[s.Name]
		}
		final := 0.0
		if len(series) > 0 {
			final = series[len(series)-1]
		}
		trendRows = append(trendRows, []string{s.Name, stats.Sparkline(series), fmt.Sprintf("%.1f%%", final*100)})
	}
	if err := writeLines(w, stats.FormatTable([]string{"Setting", "Trend", "Final"}, trendRows, map[int]bool{2: true})); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nFinal goal probability across %d trials\n", res.Config.Trials); err != nil {
		return err
	}
	headers := []string{"Goal", "Mean", "StdDev", "P10", "P50", "P90", "★1", "★2", "★3", "★4", "★5"}
	rows := [][]string{
		summaryRow(broadLabel, res.Broad, res.BroadStars),
		summaryRow(narrowLabel, res.Narrow, res.NarrowStars),
	}
	rightAlign := map[int]bool{}
	for i := 1; i < len(headers); i++ {
		rightAlign[i] = true
	}
	return writeLines(w, stats.FormatTable(headers, rows, rightAlign))
}

func summaryRow(label string, s Summary, stars [6]int) []string {
	row := []string{
		label,
		pct(s.Mean),
		pct(s.StdDev),
		pct(s.P10),
		pct(s.P50),
		pct(s.P90),
	}
	for i := 1; i <= 5; i++ {
		row = append(row, fmt.Sprintf("%d", stars[i]))
	}
	return row
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

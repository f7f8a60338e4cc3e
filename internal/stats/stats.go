package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/settei/internal/model"
)

const (
	sparkChars     = " .:-=+*#%@"
	barFull        = '█'
	barEmpty       = '░'
	DefaultBarSize = 24
)

// Sparkline renders a single-line ASCII sparkline for probabilities in [0,1].
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(clamp01(v) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Bar renders p as a horizontal bar of the given width.
func Bar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(clamp01(p) * float64(width)))
	return strings.Repeat(string(barFull), filled) + strings.Repeat(string(barEmpty), width-filled)
}

// RenderPosteriorTable prints each setting's hit rate, posterior and a bar.
func RenderPosteriorTable(w io.Writer, settings []model.Setting, post model.Posterior) error {
	if len(settings) == 0 {
		_, err := fmt.Fprintln(w, "No settings configured.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Posterior by setting"); err != nil {
		return err
	}
	headers := []string{"Setting", "Hit rate", "Posterior", ""}
	rows := make([][]string, 0, len(settings))
	for _, s := range settings {
		p := post[s.Name]
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("1/%.2f", s.Denominator),
			fmt.Sprintf("%.1f%%", p*100),
			Bar(p, DefaultBarSize),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

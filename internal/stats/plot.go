package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named probability series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type dashPattern struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "100%"
	axisSeparator       = " │ "
	fixedScaleNote      = "Probability scale, 0% to 100%."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80

	// A braille cell is two dots wide and four dots tall.
	dotsPerCellX = 2
	dotsPerCellY = 4
)

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var seriesColors = []string{"\x1b[36m", "\x1b[33m", "\x1b[35m", "\x1b[32m", "\x1b[34m"}

// brailleBits maps a dot position inside a cell to its bit in U+2800.
var brailleBits = [dotsPerCellX][dotsPerCellY]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// draws reports whether the pattern puts a dot at column x.
func (d dashPattern) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

// canvas holds one braille layer per series so overlapping cells keep the
// colour of the first series drawn there.
type canvas struct {
	width, height int
	layers        [][][]uint8
}

func newCanvas(width, height, layers int) *canvas {
	c := &canvas{width: width, height: height, layers: make([][][]uint8, layers)}
	for i := range c.layers {
		rows := make([][]uint8, height)
		for y := range rows {
			rows[y] = make([]uint8, width)
		}
		c.layers[i] = rows
	}
	return c
}

func (c *canvas) dot(layer, x, y int) {
	cx, cy := x/dotsPerCellX, y/dotsPerCellY
	if x < 0 || y < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.layers[layer][cy][cx] |= brailleBits[x%dotsPerCellX][y%dotsPerCellY]
}

func (c *canvas) cell(x, y int) (rune, int) {
	var mask uint8
	owner := -1
	for i, layer := range c.layers {
		if layer[y][x] == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= layer[y][x]
	}
	return rune(0x2800 + int(mask)), owner
}

// PlotProbabilities renders series of probabilities on a shared 0-100% axis
// using braille dots. Empty series are skipped.
func PlotProbabilities(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	kept := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	c := newCanvas(width, height, len(kept))
	dotRows := height * dotsPerCellY
	for si, s := range kept {
		dash := dashPatterns[si%len(dashPatterns)]
		prevX, prevY := -1, -1
		for x, v := range fitToWidth(s.Values, width) {
			px, py := x*dotsPerCellX, probabilityRow(v, dotRows)
			if prevX < 0 {
				if dash.draws(px) {
					c.dot(si, px, py)
				}
			} else {
				bresenham(prevX, prevY, px, py, func(dx, dy int) {
					if dash.draws(dx) {
						c.dot(si, dx, dy)
					}
				})
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, forceColor)
	var lines []string
	if title != "" {
		lines = append(lines, title)
	}
	lines = append(lines, fixedScaleNote)
	for _, s := range kept {
		lines = append(lines, fmt.Sprintf("%s: final=%.1f%%", s.Name, s.Values[len(s.Values)-1]*100))
	}
	labels := axisLabels(height)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", len(axisLabelTop), labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			ch, owner := c.cell(x, y)
			if useColor && owner >= 0 {
				row.WriteString(seriesColors[owner%len(seriesColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		lines = append(lines, row.String())
	}
	lines = append(lines, legend(kept, useColor), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	if totalWidth-axisWidth < minPlotWidth {
		return minPlotWidth
	}
	return totalWidth - axisWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// axisLabels puts percentages on the top, bottom and, when there is room,
// the quarter rows.
func axisLabels(height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	for _, pct := range []int{100, 0, 50, 75, 25} {
		row := probabilityRow(float64(pct)/100, height)
		if labels[row] == "" {
			labels[row] = fmt.Sprintf("%d%%", pct)
		}
	}
	return labels
}

// probabilityRow maps p to a row index with row 0 at 100%.
func probabilityRow(p float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	return int(math.Round((1 - clamp01(p)) * float64(rows-1)))
}

// fitToWidth averages buckets when there are more values than columns and
// interpolates linearly when there are fewer.
func fitToWidth(values []float64, width int) []float64 {
	n := len(values)
	if n == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			lo := i * n / width
			hi := (i + 1) * n / width
			if hi <= lo {
				hi = lo + 1
			}
			var sum float64
			for _, v := range values[lo:hi] {
				sum += v
			}
			out[i] = sum / float64(hi-lo)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx] + (values[idx+1]-values[idx])*frac
		}
	}
	return out
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashPatterns[i%len(dashPatterns)].name)
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, sx := abs(x1-x0), 1
	if x1 < x0 {
		sx = -1
	}
	dy, sy := -abs(y1-y0), 1
	if y1 < y0 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

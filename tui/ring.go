package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mindsgn-studio/passrate/report"
)

const (
	ringRadius = 7

	// The terminal ring uses a wider hole than the image charts so the
	// center label fits inside it.
	ringHole = 0.6

	// Terminal cells are roughly twice as tall as they are wide.
	cellAspect = 2
)

// renderRing draws data as a character-cell donut. Slices are laid out
// clockwise from twelve o'clock; the center label is written into the hole
// when it fits and under the ring otherwise.
func renderRing(data report.ChartData, radius int, styles ...lipgloss.Style) string {
	total := 0
	for _, s := range data.Slices {
		total += s.Value
	}
	if total == 0 || radius <= 0 {
		return ""
	}

	// Cumulative end fraction of every slice.
	bounds := make([]float64, len(data.Slices))
	acc := 0
	for i, s := range data.Slices {
		acc += s.Value
		bounds[i] = float64(acc) / float64(total)
	}

	r := float64(radius)
	inner := r * ringHole
	width := 2*radius*cellAspect + 1
	rows := make([]string, 0, 2*radius+1)
	labelPlaced := false

	for y := -radius; y <= radius; y++ {
		cells := make([]string, width)
		holeStart, holeEnd := -1, -1
		for col := 0; col < width; col++ {
			x := float64(col-radius*cellAspect) / cellAspect
			d := math.Hypot(x, float64(y))
			switch {
			case d > r+0.25:
				cells[col] = " "
			case d < inner:
				cells[col] = " "
				if holeStart < 0 {
					holeStart = col
				}
				holeEnd = col
			default:
				idx := sliceAt(bounds, angleFraction(x, float64(y)))
				cell := "█"
				if idx < len(styles) {
					cell = styles[idx].Render(cell)
				}
				cells[col] = cell
			}
		}

		if y == 0 && holeStart >= 0 {
			label := []rune(data.CenterLabel)
			span := holeEnd - holeStart + 1
			if len(label) > 0 && len(label) <= span {
				start := holeStart + (span-len(label))/2
				for i, ch := range label {
					cells[start+i] = string(ch)
				}
				labelPlaced = true
			}
		}
		rows = append(rows, strings.TrimRight(strings.Join(cells, ""), " "))
	}

	if !labelPlaced && data.CenterLabel != "" {
		pad := (width - len([]rune(data.CenterLabel))) / 2
		if pad < 0 {
			pad = 0
		}
		rows = append(rows, strings.Repeat(" ", pad)+data.CenterLabel)
	}
	return strings.Join(rows, "\n")
}

// angleFraction maps a point to its clockwise angle from twelve o'clock,
// as a fraction of a full turn in [0, 1).
func angleFraction(x, y float64) float64 {
	a := math.Atan2(x, -y)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a / (2 * math.Pi)
}

func sliceAt(bounds []float64, frac float64) int {
	for i, b := range bounds {
		if frac < b {
			return i
		}
	}
	return len(bounds) - 1
}

// Package chart renders the rolling sparkline charts: color-coded value
// blocks, minute tick marks, timeline labels and an acceptance-band
// scale bar.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/averin/sensorsim/internal/history"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Band is an inclusive acceptance range for a channel. Values inside the
// band render green, values near its edges yellow, values outside red.
// A zero Band (Bounded false) renders everything in the neutral color.
type Band struct {
	Low     float64
	High    float64
	Bounded bool
}

// nearMargin is the fraction of the band width treated as "approaching
// the edge".
const nearMargin = 0.1

// ValueColor returns the color for a value relative to the band.
func (b Band) ValueColor(v float64) lipgloss.Color {
	if !b.Bounded {
		return lipgloss.Color("78") // soft green
	}
	span := b.High - b.Low
	switch {
	case v < b.Low || v > b.High:
		return lipgloss.Color("196") // red
	case v < b.Low+span*nearMargin || v > b.High-span*nearMargin:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("78")
	}
}

// RenderSparkline renders the points as color-coded blocks, width runes
// wide, with a subtle pipe at each minute boundary. Short series are
// left-padded with dim dashes.
func RenderSparkline(points []history.Point, width int, rangeMin, rangeMax float64, band Band) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	if len(points) == 0 {
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder

	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	for i, p := range points {
		norm := (p.Value - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))

		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}

		if isMinuteTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}

		style := lipgloss.NewStyle().Foreground(band.ValueColor(p.Value))
		if band.Bounded && (p.Value < band.Low || p.Value > band.High) {
			style = style.Bold(true)
		}
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}

	return sb.String()
}

func isMinuteTick(points []history.Point, i int) bool {
	p := points[i]
	if p.Time.IsZero() {
		return false
	}
	if p.Time.Second() == 0 {
		return true
	}
	if i > 0 && !points[i-1].Time.IsZero() {
		return p.Time.Minute() != points[i-1].Time.Minute()
	}
	return false
}

// RenderTimeline renders the time labels under a sparkline, showing
// HH:MM at each minute tick position.
func RenderTimeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	type tick struct {
		pos   int
		label string
	}
	var ticks []tick

	for i, p := range points {
		if p.Time.IsZero() {
			continue
		}
		if isMinuteTick(points, i) {
			ticks = append(ticks, tick{pos: padLen + i, label: p.Time.Format("15:04")})
		}
	}

	lastEnd := -1
	for _, t := range ticks {
		start := t.pos - 2
		if start < 0 {
			start = 0
		}
		end := start + len(t.label)
		if end > width {
			continue
		}
		if start <= lastEnd+1 {
			continue
		}
		for j, ch := range t.label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return tickStyle.Render(string(line))
}

// RenderBandScale renders a scale bar with markers at the band edges and
// a diamond at the current value's position.
func RenderBandScale(current, rangeMin, rangeMax float64, band Band, width int) string {
	if width <= 0 {
		return ""
	}

	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	pos := func(v float64) int {
		p := int(float64(width-1) * (v - rangeMin) / span)
		if p < 0 {
			p = 0
		}
		if p >= width {
			p = width - 1
		}
		return p
	}

	lowPos, highPos := -1, -1
	if band.Bounded {
		lowPos = pos(band.Low)
		highPos = pos(band.High)
	}
	curPos := pos(current)

	edgeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dotStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == curPos:
			style := lipgloss.NewStyle().Foreground(band.ValueColor(current)).Bold(true)
			sb.WriteString(style.Render("◆"))
		case i == lowPos || i == highPos:
			sb.WriteString(edgeStyle.Render("▪"))
		default:
			sb.WriteString(dotStyle.Render("·"))
		}
	}

	return sb.String()
}

// RenderValue renders a numeric value with band color coding and a unit
// suffix.
func RenderValue(v float64, unit string, band Band) string {
	s := fmt.Sprintf("%6.2f%s", v, unit)
	style := lipgloss.NewStyle().Foreground(band.ValueColor(v))
	if band.Bounded && (v < band.Low || v > band.High) {
		style = style.Bold(true)
	}
	return style.Render(s)
}

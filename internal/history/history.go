// Package history provides the rolling value buffers behind the live
// charts, with min/peak/avg statistics and the short-window trend
// heuristic.
package history

import (
	"math"
	"time"
)

// Trend labels returned by Buffer.Trend.
const (
	TrendNone    = "--"
	TrendRising  = "Rising"
	TrendFalling = "Falling"
	TrendStable  = "Stable"
)

// trendWindow is how far back the trend comparison reaches; trendDelta
// is the movement needed before the trend leaves Stable.
const (
	trendWindow = 5
	trendDelta  = 1.0
)

// Point is a single data point in a rolling buffer.
type Point struct {
	Value float64
	Time  time.Time
}

// Buffer stores the most recent readings of one channel, capped at a
// fixed capacity. It is a derived view over the session log, never the
// source of truth.
type Buffer struct {
	Points []Point
	Max    int // capacity
	Min    float64
	Peak   float64
}

// NewBuffer creates a rolling buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		Points: make([]Point, 0, capacity),
		Max:    capacity,
		Min:    math.MaxFloat64,
		Peak:   -math.MaxFloat64,
	}
}

// Push appends a value, dropping the oldest entry once the buffer is
// full. Min and Peak track all values ever pushed, not just retained ones.
func (b *Buffer) Push(v float64, t time.Time) {
	p := Point{Value: v, Time: t}
	if len(b.Points) >= b.Max {
		copy(b.Points, b.Points[1:])
		b.Points[len(b.Points)-1] = p
	} else {
		b.Points = append(b.Points, p)
	}

	if v < b.Min {
		b.Min = v
	}
	if v > b.Peak {
		b.Peak = v
	}
}

// Last returns the most recent value, or 0 if empty.
func (b *Buffer) Last() float64 {
	if len(b.Points) == 0 {
		return 0
	}
	return b.Points[len(b.Points)-1].Value
}

// Len returns the number of retained points.
func (b *Buffer) Len() int {
	return len(b.Points)
}

// Avg returns the average over the retained points.
func (b *Buffer) Avg() float64 {
	if len(b.Points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range b.Points {
		sum += p.Value
	}
	return sum / float64(len(b.Points))
}

// Values returns the retained values oldest first.
func (b *Buffer) Values() []float64 {
	vals := make([]float64, 0, len(b.Points))
	for _, p := range b.Points {
		vals = append(vals, p.Value)
	}
	return vals
}

// LastNPoints returns up to the n most recent points.
func (b *Buffer) LastNPoints(n int) []Point {
	if n <= 0 || len(b.Points) == 0 {
		return nil
	}
	start := len(b.Points) - n
	if start < 0 {
		start = 0
	}
	out := make([]Point, len(b.Points[start:]))
	copy(out, b.Points[start:])
	return out
}

// Trend compares the latest value against the value four positions
// earlier. Fewer than five points is not enough data.
func (b *Buffer) Trend() string {
	n := len(b.Points)
	if n < trendWindow {
		return TrendNone
	}
	delta := b.Points[n-1].Value - b.Points[n-trendWindow].Value
	switch {
	case delta > trendDelta:
		return TrendRising
	case delta < -trendDelta:
		return TrendFalling
	default:
		return TrendStable
	}
}

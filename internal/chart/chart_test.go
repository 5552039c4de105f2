package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/averin/sensorsim/internal/history"
)

func TestSparkline(t *testing.T) {
	base := time.Date(2026, 8, 28, 14, 0, 30, 0, time.Local)
	var pts []history.Point
	for i, v := range []float64{93, 95, 98, 100, 103, 105, 107, 108} {
		pts = append(pts, history.Point{Value: v, Time: base.Add(time.Duration(i) * time.Second)})
	}

	band := Band{Low: 95, High: 105, Bounded: true}
	result := RenderSparkline(pts, 20, 90, 110, band)
	if len(result) == 0 {
		t.Error("sparkline should not be empty")
	}
	t.Logf("Sparkline: %s", result)
}

func TestSparklineEmpty(t *testing.T) {
	result := RenderSparkline(nil, 10, 0, 1, Band{})
	if len(result) == 0 {
		t.Error("empty series should still render a placeholder line")
	}
}

func TestSparklineMinuteTicks(t *testing.T) {
	base := time.Date(2026, 8, 28, 14, 0, 50, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, history.Point{
			Value: float64(20 + i%5),
			Time:  base.Add(time.Duration(i) * time.Second),
		})
	}

	result := RenderSparkline(pts, 20, 15, 30, Band{})
	if !strings.Contains(result, "│") {
		t.Error("expected minute tick mark in sparkline")
	}
	t.Logf("Sparkline with ticks: %s", result)
}

func TestTimelineLabels(t *testing.T) {
	base := time.Date(2026, 8, 28, 14, 0, 55, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, history.Point{
			Value: 20,
			Time:  base.Add(time.Duration(i) * time.Second),
		})
	}

	result := RenderTimeline(pts, 20)
	if !strings.Contains(result, "14:01") {
		t.Errorf("expected 14:01 label in timeline, got %q", result)
	}
}

func TestBandValueColor(t *testing.T) {
	band := Band{Low: 95, High: 105, Bounded: true}

	tests := []struct {
		value float64
		want  string
	}{
		{100, "78"},   // well inside
		{94, "196"},   // below
		{106, "196"},  // above
		{95.5, "220"}, // near the low edge
	}
	for _, tt := range tests {
		if got := string(band.ValueColor(tt.value)); got != tt.want {
			t.Errorf("ValueColor(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}

	unbounded := Band{}
	if got := string(unbounded.ValueColor(1e9)); got != "78" {
		t.Errorf("unbounded band should be neutral, got %s", got)
	}
}

func TestBandScale(t *testing.T) {
	band := Band{Low: 95, High: 105, Bounded: true}
	result := RenderBandScale(100, 90, 110, band, 30)
	if !strings.Contains(result, "◆") {
		t.Error("expected current-value marker in band scale")
	}
	if strings.Count(result, "▪") != 2 {
		t.Error("expected two band edge markers")
	}
}

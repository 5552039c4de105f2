// Package monitor implements the live sensor dashboard TUI using
// BubbleTea: current readings, status/health/trend indicators and two
// rolling sparkline charts, refreshed once per second.
package monitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/averin/sensorsim/internal/chart"
	"github.com/averin/sensorsim/internal/history"
	"github.com/averin/sensorsim/internal/report"
	"github.com/averin/sensorsim/internal/sampler"
	"github.com/averin/sensorsim/internal/session"
	"github.com/averin/sensorsim/internal/sim"
)

const (
	refreshInterval = 1 * time.Second

	// The charts show the most recent 20 readings.
	chartPoints = 20
)

var pressureBand = chart.Band{Low: sim.PressureLow, High: sim.PressureHigh, Bounded: true}

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type exportDoneMsg struct {
	dir      string
	readings int
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live dashboard. The sampling loop
// writes to the session log from its own goroutine; the model only ever
// reads it, on each refresh tick.
type Model struct {
	sess     *session.Log
	state    *session.RunState
	smp      *sampler.Sampler
	exporter *report.Exporter
	log      *logrus.Entry

	tempBuf  *history.Buffer
	pressBuf *history.Buffer
	consumed int // readings already pulled into the buffers
	latest   sim.Reading
	haveData bool

	notice    string
	err       error
	width     int
	height    int
	scroll    int
	startTime time.Time
}

// New creates the initial dashboard model.
func New(sess *session.Log, state *session.RunState, smp *sampler.Sampler, exporter *report.Exporter, log *logrus.Entry) Model {
	return Model{
		sess:      sess,
		state:     state,
		smp:       smp,
		exporter:  exporter,
		log:       log,
		tempBuf:   history.NewBuffer(chartPoints),
		pressBuf:  history.NewBuffer(chartPoints),
		startTime: time.Now(),
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func exportCmd(e *report.Exporter, sess *session.Log) tea.Cmd {
	return func() tea.Msg {
		readings, faults := sess.Snapshot()
		if err := e.Export(readings, faults); err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{dir: e.Dir, readings: len(readings)}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.smp.Stop()
			return m, tea.Quit
		case "s":
			if m.smp.Start() {
				m.notice = ""
			}
		case "p":
			m.smp.Pause()
		case "r":
			m.smp.Resume()
		case "x":
			m.smp.Stop()
		case "e":
			m.notice = ""
			m.err = nil
			return m, exportCmd(m.exporter, m.sess)
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.consume()
		return m, tickCmd()

	case exportDoneMsg:
		m.err = nil
		m.notice = fmt.Sprintf("exported %d readings to %s/", msg.readings, msg.dir)

	case errMsg:
		m.err = msg.err
		m.log.WithError(msg.err).Error("export failed")
	}

	return m, nil
}

// consume pulls readings appended since the last refresh into the
// rolling buffers. Feeding the buffers only from new log entries keeps
// them equal to the last 20 log entries' fields, paused or not.
func (m *Model) consume() {
	fresh := m.sess.ReadingsFrom(m.consumed)
	if len(fresh) == 0 {
		return
	}
	for _, r := range fresh {
		m.tempBuf.Push(r.Temp1, r.At)
		m.pressBuf.Push(r.Pressure, r.At)
	}
	m.latest = fresh[len(fresh)-1]
	m.haveData = true
	m.consumed += len(fresh)
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorPanel    = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorCrit     = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err))
		sections = append(sections, errBox)
	}
	if m.notice != "" {
		note := lipgloss.NewStyle().
			Foreground(colorOk).
			Width(contentWidth).
			Padding(0, 1).
			Render(" " + m.notice)
		sections = append(sections, note)
	}

	if !m.haveData {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("No readings yet. Press s to start sampling.")
		sections = append(sections, waiting)
	} else {
		sections = append(sections, m.renderReadings(contentWidth))
		sections = append(sections, m.renderStatus(contentWidth))
		sections = append(sections, m.renderChartPanel(contentWidth, "Temp1 °C", m.tempBuf, chart.Band{}))
		sections = append(sections, m.renderChartPanel(contentWidth, "Pressure kPa", m.pressBuf, pressureBand))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}

	start := m.scroll
	end := start + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("SENSOR SIM")

	var statusParts []string

	uptime := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime))))
	statusParts = append(statusParts, uptime)

	if m.haveData {
		ts := lipgloss.NewStyle().
			Foreground(colorDim).
			Render(m.latest.Timestamp())
		statusParts = append(statusParts, ts)
	}

	statusParts = append(statusParts, m.renderPhaseBadge())

	rep := lipgloss.NewStyle().Foreground(colorDim).Render(m.exporter.Dir + "/")
	statusParts = append(statusParts, rep)

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + filler + right)
}

func (m Model) renderPhaseBadge() string {
	phase := m.state.Phase()
	color := colorDim
	switch phase {
	case session.Running:
		color = colorOk
	case session.Paused:
		color = colorWarn
	case session.Stopped:
		color = colorCrit
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(phase.String())
}

func (m Model) renderReadings(width int) string {
	labelS := lipgloss.NewStyle().Foreground(colorDim)

	temp2 := "--"
	if m.latest.HasTemp2 {
		temp2 = fmt.Sprintf("%.2f", m.latest.Temp2)
	}

	row := labelS.Render("Temp1: ") + chart.RenderValue(m.latest.Temp1, " °C", chart.Band{}) +
		labelS.Render("    Temp2: ") + lipgloss.NewStyle().Foreground(colorLabel).Render(temp2+" °C") +
		labelS.Render("    Pressure: ") + chart.RenderValue(m.latest.Pressure, " kPa", pressureBand)

	return m.panel(width, "Live Sensor Data", []string{row})
}

func (m Model) renderStatus(width int) string {
	statusColor := colorCrit
	if m.latest.Status == sim.StatusOK {
		statusColor = colorOk
	}
	status := lipgloss.NewStyle().Foreground(statusColor).Bold(true).Render(string(m.latest.Status))

	health := healthScore(m.sess.FaultCount())
	healthColor := colorOk
	switch {
	case health < 50:
		healthColor = colorCrit
	case health < 90:
		healthColor = colorWarn
	}
	healthText := lipgloss.NewStyle().Foreground(healthColor).Render(fmt.Sprintf("%d", health))

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	row := dimS.Render("Status: ") + status +
		dimS.Render("    Health Score: ") + healthText +
		dimS.Render("    Trend: ") + lipgloss.NewStyle().Foreground(colorLabel).Render(m.tempBuf.Trend())

	return m.panel(width, "System Status", []string{row})
}

func (m Model) renderChartPanel(width int, label string, buf *history.Buffer, band chart.Band) string {
	chartWidth := width - 14
	if chartWidth < 20 {
		chartWidth = 20
	}
	if chartWidth > 120 {
		chartWidth = 120
	}

	rangeMin := math.Max(0, buf.Min-2)
	rangeMax := buf.Peak + 2
	if band.Bounded {
		rangeMin = math.Min(rangeMin, band.Low-2)
		rangeMax = math.Max(rangeMax, band.High+2)
	}

	pts := buf.LastNPoints(chartPoints)

	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")
	spark := chart.RenderSparkline(pts, chartWidth, rangeMin, rangeMax, band)

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%6.2f", buf.Avg())) +
		dimS.Render(" lo") + valS.Render(fmt.Sprintf("%6.2f", buf.Min)) +
		dimS.Render(" pk") + valS.Render(fmt.Sprintf("%6.2f", buf.Peak))

	rows := []string{frameL + spark + frameR + stats}

	timeline := chart.RenderTimeline(pts, chartWidth)
	if strings.TrimSpace(timeline) != "" {
		rows = append(rows, " "+timeline)
	}

	if band.Bounded {
		scale := chart.RenderBandScale(buf.Last(), rangeMin, rangeMax, band, chartWidth)
		rows = append(rows, " "+scale)
	}

	return m.panel(width, label, rows)
}

func (m Model) panel(width int, title string, rows []string) string {
	titleText := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPanel).
		Render(title)

	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{titleText}, rows...)...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(content)
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("s") + keyS.Render(":start") +
		dimS.Render("  p") + keyS.Render(":pause") +
		dimS.Render("  r") + keyS.Render(":resume") +
		dimS.Render("  x") + keyS.Render(":stop") +
		dimS.Render("  e") + keyS.Render(":export") +
		dimS.Render("  j/k") + keyS.Render(":scroll") +
		dimS.Render("  q") + keyS.Render(":quit")

	legend := lipgloss.NewStyle().Foreground(colorOk).Render("██") + dimS.Render(" ok ") +
		lipgloss.NewStyle().Foreground(colorWarn).Render("██") + dimS.Render(" edge ") +
		lipgloss.NewStyle().Foreground(colorCrit).Render("██") + dimS.Render(" fault")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + filler + keys)
}

// healthScore is 100 minus the cumulative fault count, floored at 0. It
// never recovers within a run.
func healthScore(faultCount int) int {
	score := 100 - faultCount
	if score < 0 {
		return 0
	}
	return score
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	min := d / time.Minute
	d -= min * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, min, s)
	}
	return fmt.Sprintf("%dm%02ds", min, s)
}

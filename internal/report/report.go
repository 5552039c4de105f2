// Package report writes the three session artifacts: the tabular reading
// log, the fault list and the plain-text summary. Every export rewrites
// the artifacts from the full session state, so repeated exports with no
// new readings are byte-identical.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/averin/sensorsim/internal/sim"
)

const (
	// DefaultDir is the reports directory, created on first export.
	DefaultDir = "reports"

	DataLogName  = "sensor_data_log.csv"
	ErrorLogName = "sensor_error_log.json"
	SummaryName  = "report_summary.txt"

	// Placeholder used wherever an absent temp2 is rendered.
	missingMark = "--"
)

// Exporter writes session artifacts into Dir.
type Exporter struct {
	Dir string
	log *logrus.Entry
}

// New creates an exporter targeting dir (DefaultDir if empty).
func New(dir string, log *logrus.Entry) *Exporter {
	if dir == "" {
		dir = DefaultDir
	}
	return &Exporter{Dir: dir, log: log}
}

// Export writes all artifacts for the given session state. The error log
// is only written when at least one fault occurred. An empty session
// exports cleanly: a header-only data log and a summary without the
// numeric block.
func (e *Exporter) Export(readings []sim.Reading, faults []sim.FaultRecord) error {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return errors.Annotate(err, "create reports dir")
	}

	if err := e.writeDataLog(readings); err != nil {
		return errors.Annotate(err, "write data log")
	}
	if len(faults) > 0 {
		if err := e.writeErrorLog(faults); err != nil {
			return errors.Annotate(err, "write error log")
		}
	}
	if err := e.writeSummary(readings, faults); err != nil {
		return errors.Annotate(err, "write summary")
	}

	e.log.WithFields(logrus.Fields{
		"dir":      e.Dir,
		"readings": len(readings),
		"faults":   len(faults),
	}).Info("session exported")
	return nil
}

func (e *Exporter) writeDataLog(readings []sim.Reading) error {
	f, err := os.Create(filepath.Join(e.Dir, DataLogName))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"Time", "Temp1", "Temp2", "Pressure", "Status"})

	for _, r := range readings {
		temp2 := missingMark
		if r.HasTemp2 {
			temp2 = fmt.Sprintf("%.2f", r.Temp2)
		}
		w.Write([]string{
			r.Timestamp(),
			fmt.Sprintf("%.2f", r.Temp1),
			temp2,
			fmt.Sprintf("%.2f", r.Pressure),
			string(r.Status),
		})
	}

	w.Flush()
	return w.Error()
}

func (e *Exporter) writeErrorLog(faults []sim.FaultRecord) error {
	data, err := json.MarshalIndent(faults, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.Dir, ErrorLogName), data, 0644)
}

func (e *Exporter) writeSummary(readings []sim.Reading, faults []sim.FaultRecord) error {
	var lines []string

	lines = append(lines, fmt.Sprintf("Total Data Points: %d", len(readings)))

	if len(readings) > 0 {
		var temps, pressures agg
		for _, r := range readings {
			temps.push(r.Temp1)
			pressures.push(r.Pressure)
		}
		lines = append(lines,
			fmt.Sprintf("Temperature -> Min: %.2f, Max: %.2f, Mean: %.2f", temps.min, temps.max, temps.mean()),
			fmt.Sprintf("Pressure    -> Min: %.2f, Max: %.2f, Mean: %.2f", pressures.min, pressures.max, pressures.mean()),
			"",
		)
	}

	lines = append(lines, "Error Type Breakdown:")

	// Group by sensor name in first-occurrence order so re-exports are
	// deterministic.
	counts := make(map[string]int)
	var order []string
	for _, f := range faults {
		if _, ok := counts[f.Sensor]; !ok {
			order = append(order, f.Sensor)
		}
		counts[f.Sensor]++
	}
	for _, sensor := range order {
		lines = append(lines, fmt.Sprintf(" - %s: %d occurrence(s)", sensor, counts[sensor]))
	}

	return os.WriteFile(filepath.Join(e.Dir, SummaryName), []byte(strings.Join(lines, "\n")), 0644)
}

type agg struct {
	min, max, sum float64
	n             int
}

func (a *agg) push(v float64) {
	if a.n == 0 || v < a.min {
		a.min = v
	}
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.n++
}

func (a *agg) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

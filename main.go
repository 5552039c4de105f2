// Command sensorsim runs a simulated sensor dashboard: a background loop
// generates two temperature channels and one pressure channel once per
// second, a terminal UI shows them live with rolling charts, and the
// accumulated session can be exported to reports/ on demand.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/averin/sensorsim/internal/logging"
	"github.com/averin/sensorsim/internal/monitor"
	"github.com/averin/sensorsim/internal/report"
	"github.com/averin/sensorsim/internal/sampler"
	"github.com/averin/sensorsim/internal/session"
	"github.com/averin/sensorsim/internal/sim"
)

const logFile = "sensorsim.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sensorsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	sessionID := uuid.NewString()
	log := logging.New(logFile, logrus.InfoLevel).WithField("session", sessionID)
	log.Info("starting")

	sess := session.NewLog()
	state := session.NewRunState()
	smp := sampler.New(sim.NewGenerator(), sess, state, sampler.DefaultInterval, log)
	exporter := report.New(report.DefaultDir, log)

	p := tea.NewProgram(
		monitor.New(sess, state, smp, exporter, log),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return errors.Annotate(err, "run dashboard")
	}

	// The quit key already stops the sampler; this covers abnormal UI
	// teardown paths.
	smp.Stop()

	log.WithFields(logrus.Fields{
		"readings": sess.Len(),
		"faults":   sess.FaultCount(),
	}).Info("shutting down")
	return nil
}

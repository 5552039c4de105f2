// Package sampler runs the background sampling loop: while the run state
// is Running it generates one classified reading per tick and appends it
// to the session log.
package sampler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/averin/sensorsim/internal/session"
	"github.com/averin/sensorsim/internal/sim"
)

// DefaultInterval is the fixed sampling cadence.
const DefaultInterval = 1 * time.Second

// Sampler owns the sampling goroutine. It is the sole writer to the
// session log. Start/Pause/Resume/Stop mirror the user commands; the
// loop observes the run state once per tick, so Stop takes effect within
// one tick.
type Sampler struct {
	gen      *sim.Generator
	sess     *session.Log
	state    *session.RunState
	interval time.Duration
	log      *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a sampler over the given session log and run state.
func New(gen *sim.Generator, sess *session.Log, state *session.RunState, interval time.Duration, log *logrus.Entry) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		gen:      gen,
		sess:     sess,
		state:    state,
		interval: interval,
		log:      log,
	}
}

// Start transitions the run state to Running and launches the loop
// goroutine. Restarting after Stop reuses the same session log: the run
// continues where it left off. Returns false if the transition was not
// valid (already running or paused).
func (s *Sampler) Start() bool {
	if !s.state.Start() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)

	s.log.WithField("readings", s.sess.Len()).Info("sampling started")
	return true
}

// Pause suspends reading generation without stopping the loop goroutine;
// the tick timer keeps advancing.
func (s *Sampler) Pause() bool {
	if !s.state.Pause() {
		return false
	}
	s.log.Info("sampling paused")
	return true
}

// Resume continues a paused run.
func (s *Sampler) Resume() bool {
	if !s.state.Resume() {
		return false
	}
	s.log.Info("sampling resumed")
	return true
}

// Stop transitions to Stopped and waits for the loop goroutine to exit.
func (s *Sampler) Stop() bool {
	if !s.state.Stop() {
		return false
	}

	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	s.log.WithFields(logrus.Fields{
		"readings": s.sess.Len(),
		"faults":   s.sess.FaultCount(),
	}).Info("sampling stopped")
	return true
}

func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case now := <-t.C:
			switch s.state.Phase() {
			case session.Running:
				r, faults := s.gen.Generate(now)
				s.sess.Append(r, faults)
				if len(faults) > 0 {
					s.log.WithFields(logrus.Fields{
						"status": string(r.Status),
						"faults": len(faults),
					}).Warn("fault reading logged")
				}
			case session.Paused:
				// Timer keeps advancing; nothing is generated.
			default:
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

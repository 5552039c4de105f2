package session

import "sync"

// Phase is the run-control state governing whether new readings are
// generated.
type Phase int

const (
	Idle Phase = iota
	Running
	Paused
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Paused:
		return "PAUSED"
	case Stopped:
		return "STOPPED"
	}
	return "UNKNOWN"
}

// RunState is the shared run-control state. It is mutated only by user
// commands and read by the sampling loop once per tick. Invalid
// transitions are no-ops and report false.
type RunState struct {
	mu    sync.Mutex
	phase Phase
}

// NewRunState creates a run state in the Idle phase.
func NewRunState() *RunState {
	return &RunState{phase: Idle}
}

// Phase returns the current phase.
func (s *RunState) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Start transitions Idle or Stopped to Running.
func (s *RunState) Start() bool {
	return s.transition(Running, Idle, Stopped)
}

// Pause transitions Running to Paused.
func (s *RunState) Pause() bool {
	return s.transition(Paused, Running)
}

// Resume transitions Paused back to Running.
func (s *RunState) Resume() bool {
	return s.transition(Running, Paused)
}

// Stop transitions Running or Paused to Stopped.
func (s *RunState) Stop() bool {
	return s.transition(Stopped, Running, Paused)
}

func (s *RunState) transition(to Phase, from ...Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range from {
		if s.phase == f {
			s.phase = to
			return true
		}
	}
	return false
}

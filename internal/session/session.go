// Package session holds the in-memory state shared between the sampling
// loop and its readers: the append-only log of readings plus fault
// records, and the run-state machine driven by user commands.
package session

import (
	"sync"

	"github.com/averin/sensorsim/internal/sim"
)

// Log is the append-only record of one session. The sampling loop is the
// sole writer; the live display and the exporter only read. A single
// mutex makes each append atomic, so a reader never observes a reading
// without its fault records.
type Log struct {
	mu       sync.RWMutex
	readings []sim.Reading
	faults   []sim.FaultRecord
}

// NewLog creates an empty session log.
func NewLog() *Log {
	return &Log{}
}

// Append records a reading together with the fault records its
// classification produced. Entries are never removed.
func (l *Log) Append(r sim.Reading, faults []sim.FaultRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readings = append(l.readings, r)
	l.faults = append(l.faults, faults...)
}

// Latest returns the most recently appended reading, or false if the log
// is still empty.
func (l *Log) Latest() (sim.Reading, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.readings) == 0 {
		return sim.Reading{}, false
	}
	return l.readings[len(l.readings)-1], true
}

// Len returns the number of readings appended so far.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.readings)
}

// FaultCount returns the number of fault records accumulated so far.
func (l *Log) FaultCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.faults)
}

// ReadingsFrom returns a copy of the readings appended at index i and
// later. The display uses it to catch up on entries it has not consumed
// yet.
func (l *Log) ReadingsFrom(i int) []sim.Reading {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 {
		i = 0
	}
	if i >= len(l.readings) {
		return nil
	}
	out := make([]sim.Reading, len(l.readings)-i)
	copy(out, l.readings[i:])
	return out
}

// Snapshot returns copies of the full reading and fault sequences for
// export. The log itself is left untouched.
func (l *Log) Snapshot() ([]sim.Reading, []sim.FaultRecord) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	readings := make([]sim.Reading, len(l.readings))
	copy(readings, l.readings)
	faults := make([]sim.FaultRecord, len(l.faults))
	copy(faults, l.faults)
	return readings, faults
}

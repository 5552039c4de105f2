package sampler

import (
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averin/sensorsim/internal/session"
	"github.com/averin/sensorsim/internal/sim"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("test", true)
}

func newTestSampler(interval time.Duration) (*Sampler, *session.Log, *session.RunState) {
	gen := sim.NewGeneratorWithSource(rand.New(rand.NewPCG(1, 2)))
	sess := session.NewLog()
	state := session.NewRunState()
	return New(gen, sess, state, interval, testLogger()), sess, state
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestSamplerAppendsWhileRunning(t *testing.T) {
	s, sess, state := newTestSampler(5 * time.Millisecond)
	defer s.Stop()

	require.True(t, s.Start())
	assert.Equal(t, session.Running, state.Phase())

	waitFor(t, time.Second, func() bool { return sess.Len() >= 3 })

	_, ok := sess.Latest()
	assert.True(t, ok)
}

func TestSamplerStartWhileRunningIsNoop(t *testing.T) {
	s, _, _ := newTestSampler(5 * time.Millisecond)
	defer s.Stop()

	require.True(t, s.Start())
	assert.False(t, s.Start())
}

func TestSamplerPauseHoldsLog(t *testing.T) {
	s, sess, state := newTestSampler(5 * time.Millisecond)
	defer s.Stop()

	require.True(t, s.Start())
	waitFor(t, time.Second, func() bool { return sess.Len() >= 2 })

	require.True(t, s.Pause())
	assert.Equal(t, session.Paused, state.Phase())

	// Let any in-flight tick land, then verify no further growth.
	time.Sleep(20 * time.Millisecond)
	n := sess.Len()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, sess.Len())

	require.True(t, s.Resume())
	waitFor(t, time.Second, func() bool { return sess.Len() > n })
}

func TestSamplerStopTerminatesLoop(t *testing.T) {
	s, sess, state := newTestSampler(5 * time.Millisecond)

	require.True(t, s.Start())
	waitFor(t, time.Second, func() bool { return sess.Len() >= 1 })

	// Stop waits for the goroutine, so the log cannot grow afterwards.
	require.True(t, s.Stop())
	assert.Equal(t, session.Stopped, state.Phase())

	n := sess.Len()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, sess.Len())

	assert.False(t, s.Stop())
}

func TestSamplerRestartReusesSessionLog(t *testing.T) {
	s, sess, _ := newTestSampler(5 * time.Millisecond)

	require.True(t, s.Start())
	waitFor(t, time.Second, func() bool { return sess.Len() >= 2 })
	require.True(t, s.Stop())
	n := sess.Len()

	require.True(t, s.Start())
	defer s.Stop()
	waitFor(t, time.Second, func() bool { return sess.Len() > n })
}

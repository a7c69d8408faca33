package ui

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for the spinner's animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Sampling", &syncBuffer{})
	assert.Equal(t, SpinnerPending, s.State())
}

func TestSpinner_StartStop(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinner("Sampling", out)

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	// Stop leaves the state alone
	assert.Equal(t, SpinnerInProgress, s.State())
	assert.Contains(t, out.String(), "Sampling...")

	// Stopping twice is harmless
	assert.NotPanics(t, s.Stop)
}

func TestSpinner_Success(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinner("Sampling", out)

	s.Start()
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	assert.Contains(t, out.String(), SymbolComplete+" Sampling")
}

func TestSpinner_Fail(t *testing.T) {
	out := &syncBuffer{}
	s := NewSpinner("Sampling", out)

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, out.String(), SymbolFail+" Sampling")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "1.2s", formatDuration(1200*time.Millisecond))
}

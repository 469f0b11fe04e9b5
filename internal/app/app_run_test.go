package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patternkit/internal/config"
)

// gatedWriter is a concurrency-safe buffer. Once armed, the next Write
// blocks until the gate is released.
type gatedWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	gate    chan struct{}
	entered chan struct{}
}

func (w *gatedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	gate, entered := w.gate, w.entered
	w.gate, w.entered = nil, nil
	w.mu.Unlock()
	if gate != nil {
		close(entered)
		<-gate
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// arm makes the next Write block. It returns a channel closed once that
// Write has started, and a func that lets it finish.
func (w *gatedWriter) arm() (<-chan struct{}, func()) {
	gate, entered := make(chan struct{}), make(chan struct{})
	w.mu.Lock()
	w.gate, w.entered = gate, entered
	w.mu.Unlock()
	var once sync.Once
	return entered, func() { once.Do(func() { close(gate) }) }
}

func (w *gatedWriter) count(line string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, l := range strings.Split(w.buf.String(), "\n") {
		if l == line {
			n++
		}
	}
	return n
}

// startRun runs a in the background and stops it when the test ends.
func startRun(t *testing.T, a *App) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("Run did not return after cancel")
		}
		_ = a.Stop(context.Background())
	})
}

func TestRunWatchRerunsOnceOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	writeConfig(t, path, demoYAML)

	out := &gatedWriter{}
	a, err := New(Options{ConfigPath: path, Watch: true, Stdout: out})
	require.NoError(t, err)
	startRun(t, a)

	require.Eventually(t, func() bool { return out.count("калькулятор:1 + 2 = 3") == 1 },
		5*time.Second, 10*time.Millisecond)

	changed := strings.Replace(demoYAML, "x: 1, y: 2", "x: 20, y: 22", 1)
	const want = "калькулятор:20 + 22 = 42"
	// Rewriting is idempotent: once a version is committed, identical
	// content is skipped by hash, so retries never add runs.
	require.Eventually(t, func() bool {
		if out.count(want) > 0 {
			return true
		}
		for i := 0; i < 3; i++ {
			_ = os.WriteFile(path, []byte(changed), 0o600)
		}
		return false
	}, 10*time.Second, 400*time.Millisecond)

	time.Sleep(700 * time.Millisecond)
	assert.Equal(t, 1, out.count(want))
	assert.Equal(t, 22, a.Config().Calculator.Steps[1].Y)
}

func TestReloadLoopCoalescesBurst(t *testing.T) {
	out := &gatedWriter{}
	a, err := New(Options{Stdout: out})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Stop(context.Background()) })

	burst := make(chan *config.Config, 3)
	for _, x := range []int{100, 200, 300} {
		c := config.Default()
		c.Calculator.Steps = []config.CalculatorStep{
			{Action: config.ActionSet, Operation: "add"},
			{Action: config.ActionExecute, X: x, Y: 1},
		}
		burst <- c
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.reloadLoop(ctx, burst)
		close(done)
	}()

	require.Eventually(t, func() bool { return out.count("калькулятор:300 + 1 = 301") == 1 },
		5*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	assert.Zero(t, out.count("калькулятор:100 + 1 = 101"))
	assert.Zero(t, out.count("калькулятор:200 + 1 = 201"))
	assert.Equal(t, 300, a.Config().Calculator.Steps[1].X)
}

func TestScheduleSwapAndStopDuringRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	writeConfig(t, path, "schedule: \"@every 1s\"\n"+demoYAML)

	out := &gatedWriter{}
	a, err := New(Options{ConfigPath: path, Stdout: out})
	require.NoError(t, err)
	startRun(t, a)

	// "one" is the last line of a run.
	require.Eventually(t, func() bool { return out.count("one") == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { _, ok := a.rep.Next(); return ok }, 5*time.Second, 10*time.Millisecond)

	// Hold the next scheduled run in the middle of its output.
	entered, release := out.arm()
	t.Cleanup(release)
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run never started")
	}

	swapped := *a.Config()
	swapped.Schedule = "@every 2s"
	applied := make(chan struct{})
	go func() {
		a.applyConfig(&swapped)
		close(applied)
	}()

	// The swap waits for the running job; let it finish.
	time.Sleep(100 * time.Millisecond)
	release()
	select {
	case <-applied:
	case <-time.After(5 * time.Second):
		t.Fatal("schedule swap blocked behind the running job")
	}
	a.mu.Lock()
	assert.Equal(t, "@every 2s", a.scheduled)
	a.mu.Unlock()
	_, ok := a.rep.Next()
	assert.True(t, ok)

	stopped := *a.Config()
	stopped.Schedule = ""
	a.applyConfig(&stopped)
	a.mu.Lock()
	assert.Empty(t, a.scheduled)
	a.mu.Unlock()
	_, ok = a.rep.Next()
	assert.False(t, ok)
}

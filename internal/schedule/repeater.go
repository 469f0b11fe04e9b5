// Package schedule repeats a job on a cron or interval schedule.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	logx "patternkit/pkg/logx"
)

// Repeater runs one job on one schedule. Runs never overlap: a tick that
// fires while the previous run is still going is skipped.
type Repeater struct {
	mu  sync.Mutex
	log logx.Logger
	c   *cron.Cron
	id  cron.EntryID
	gen uint64 // bumped by every Start and Stop
}

func NewRepeater(log logx.Logger) *Repeater {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Repeater{log: log}
}

// Start (re)schedules job. A running schedule is replaced.
func (r *Repeater) Start(spec Spec, job func()) error {
	sched, err := spec.Schedule()
	if err != nil {
		return err
	}

	// Never wait for the old job under r.mu: the job may call Next.
	r.mu.Lock()
	old := r.c
	r.c = nil
	r.gen++
	gen := r.gen
	r.mu.Unlock()
	if old != nil {
		<-old.Stop().Done()
	}

	cl := cronLogger{log: r.log}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	id := c.Schedule(sched, cron.FuncJob(job))

	r.mu.Lock()
	if r.gen != gen {
		// A later Start or Stop won while the old job drained.
		r.mu.Unlock()
		return nil
	}
	r.c, r.id = c, id
	c.Start()
	r.mu.Unlock()

	args := []logx.Field{logx.String("spec", spec.String()), logx.String("source", spec.Source)}
	if next := NextRuns(sched, time.Now(), 3); len(next) > 0 {
		args = append(args, logx.String("next", strings.Join(next, ", ")))
	}
	r.log.Info("schedule started", args...)
	return nil
}

// Next reports the next planned run, if the repeater is running.
func (r *Repeater) Next() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.c == nil {
		return time.Time{}, false
	}
	e := r.c.Entry(r.id)
	if !e.Valid() || e.Next.IsZero() {
		return time.Time{}, false
	}
	return e.Next, true
}

// Stop stops triggering and waits for a running job until ctx is done.
func (r *Repeater) Stop(ctx context.Context) {
	r.mu.Lock()
	c := r.c
	r.c = nil
	r.gen++
	r.mu.Unlock()
	if c == nil {
		return
	}

	start := time.Now()
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		// best-effort
	}
	r.log.Info("schedule stopped", logx.Duration("took", time.Since(start)))
}

// NextRuns previews up to n activation times after from.
func NextRuns(sched cron.Schedule, from time.Time, n int) []string {
	out := make([]string, 0, n)
	t := from
	for i := 0; i < n; i++ {
		t = sched.Next(t)
		if t.IsZero() {
			break
		}
		out = append(out, t.Format("2006-01-02 15:04:05"))
	}
	return out
}

// cronLogger routes cron's internal logging to logx.
type cronLogger struct{ log logx.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(kvFields(keysAndValues), logx.Err(err))...)
}

func kvFields(kv []interface{}) []logx.Field {
	out := make([]logx.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logx.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}

package workbook

import (
	"context"
	"sync"
	"time"
)

// Trace collects the lock activity of one caller, typically one HTTP request
type Trace struct {
	mu       sync.Mutex
	tables   []string
	lockWait time.Duration
	timedOut bool
}

type traceKey struct{}

// WithTrace returns a copy of ctx whose store calls are recorded in t
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

func traceFrom(ctx context.Context) *Trace {
	t, _ := ctx.Value(traceKey{}).(*Trace)
	return t
}

func (t *Trace) record(table string, wait time.Duration, timedOut bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tables = append(t.tables, table)
	t.lockWait += wait
	t.timedOut = t.timedOut || timedOut
}

// Tables lists the sheets locked so far, in order, one entry per write
func (t *Trace) Tables() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.tables...)
}

// LockWait is the total time spent waiting for the lock
func (t *Trace) LockWait() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lockWait
}

// TimedOut reports whether any write gave up on the lock
func (t *Trace) TimedOut() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timedOut
}

// Package monitoring holds the process wide error reporter used by
// background work that has no caller to return errors to.
package monitoring

import "time"

// Monitor reports errors to an external tracker.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CapturePanic(v any)
	Flush(timeout time.Duration)
}

// NopMonitor discards everything.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any)                          {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the process wide monitor. A nil monitor is ignored.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// Current returns the process wide monitor.
func Current() Monitor { return current }

// CaptureException records err with optional tags. Nil errors are ignored.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	current.CaptureException(err, tags)
}

// Recover reports a panic and re-panics. It must be deferred directly:
//
//	defer monitoring.Recover()
func Recover() {
	if r := recover(); r != nil {
		current.CapturePanic(r)
		current.Flush(2 * time.Second)
		panic(r)
	}
}

// Flush waits for buffered events to be sent.
func Flush(d time.Duration) {
	current.Flush(d)
}

package exporter

import (
	"context"
	"runtime"
	"time"
)

// EventType is the kind of message sent to the Reporter.
type EventType string

const (
	EventStatus   EventType = "status"
	EventProgress EventType = "progress"
	EventSuccess  EventType = "success"
	EventError    EventType = "error"
	// EventSave carries the finished document. The host turns it into a file.
	EventSave EventType = "save-icons-export"
)

// Event is a one-way message to the host UI.
type Event struct {
	Type    EventType
	Message string

	// Content and Filename are set on EventSave only.
	Content  string
	Filename string
}

// Reporter receives the progress messages of a run.
type Reporter interface {
	Report(Event)
}

// SaveReporter is a Reporter that persists the save event itself. The run
// reports success only after ReportSave returns nil.
type SaveReporter interface {
	Reporter
	ReportSave(ctx context.Context, ev Event) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

// Report calls f.
func (f ReporterFunc) Report(ev Event) { f(ev) }

// Notifier shows a blocking, user-visible alert.
type Notifier interface {
	Notify(message string, isError bool, timeout time.Duration)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, isError bool, timeout time.Duration)

// Notify calls f.
func (f NotifierFunc) Notify(message string, isError bool, timeout time.Duration) {
	f(message, isError, timeout)
}

// Yielder suspends the run briefly so the host stays responsive. It never
// affects results.
type Yielder func(ctx context.Context)

// NoYield is the Yielder used when none is configured.
func NoYield(context.Context) {}

// Pause returns a Yielder that hands the processor to other goroutines and
// then sleeps for d, or until ctx is done.
func Pause(d time.Duration) Yielder {
	return func(ctx context.Context) {
		runtime.Gosched()
		if d <= 0 {
			return
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
}

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

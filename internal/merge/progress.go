package merge

import "fmt"

// Event is emitted to the user during a merge run.
type Event struct {
	Source  string
	Status  Status
	Message string
}

// Status is the state of one source within a run.
type Status string

const (
	StatusReading  Status = "reading"
	StatusMerging  Status = "merging"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan Event
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan Event, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event Event) {
	select {
	case pr.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan Event {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatEvent formats an Event as a human-readable status line.
func FormatEvent(event Event) string {
	switch event.Status {
	case StatusReading:
		return fmt.Sprintf("  ○ %s (reading)", event.Source)
	case StatusMerging:
		return fmt.Sprintf("  ● %s...", event.Source)
	case StatusComplete:
		return fmt.Sprintf("  ✓ %s merged", event.Source)
	case StatusFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Source, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Source)
	}
}

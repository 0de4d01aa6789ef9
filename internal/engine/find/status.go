package find

import (
	"fmt"
	"time"
)

// Status is a transient message shown for Duration.
type Status struct {
	Message  string
	Duration time.Duration
}

// Status messages.
var (
	StatusNoMatches        = Status{"No matches", 2500 * time.Millisecond}
	StatusReachedStart     = Status{"Reached start", 2 * time.Second}
	StatusReachedEnd       = Status{"Reached end", 2 * time.Second}
	StatusReplaced         = Status{"Replaced", 2 * time.Second}
	StatusNothingToReplace = Status{"Nothing to replace", 2500 * time.Millisecond}
	StatusInvalidRegex     = Status{"Invalid regex", 3 * time.Second}
	StatusSelectText       = Status{"Select text to limit search", 2 * time.Second}
)

// statusReplacedN reports a replace-all count.
func statusReplacedN(n int) Status {
	if n == 1 {
		return Status{"Replaced 1 match", 3 * time.Second}
	}
	return Status{fmt.Sprintf("Replaced %d matches", n), 3 * time.Second}
}

func (f *Finder) setStatus(s Status) {
	f.status = s.Message
	f.statusTimer = s.Duration
}

func (f *Finder) clearStatus() {
	f.status = ""
	f.statusTimer = 0
}

// StatusMessage returns the current status message and how long it will
// remain visible. The message is empty when none is shown.
func (f *Finder) StatusMessage() (string, time.Duration) {
	return f.status, f.statusTimer
}

// Counter formats the active result position as "n/total", with n zero
// when no result is active.
func (f *Finder) Counter() string {
	return fmt.Sprintf("%d/%d", f.index+1, len(f.results))
}

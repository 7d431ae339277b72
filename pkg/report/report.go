package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Header opens the end-of-run notice when at least one failure was recorded.
const Header = "The following errors occurred:"

// List is an ordered, append-only collection of human-readable failure messages.
// The zero value is ready to use. Each stage of a run returns its own List and
// the caller merges it into the run-wide one.
type List struct {
	entries []string
}

// Record appends msg to the list.
func (l *List) Record(msg string) {
	l.entries = append(l.entries, msg)
}

// Recordf formats and appends a message.
func (l *List) Recordf(format string, args ...any) {
	l.Record(fmt.Sprintf(format, args...))
}

// Merge appends every entry of other, preserving its order.
// A nil other is a no-op.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.entries = append(l.entries, other.entries...)
}

// Len returns the number of recorded entries. Safe on a nil List.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Empty reports whether nothing was recorded.
func (l *List) Empty() bool {
	return l.Len() == 0
}

// Entries returns a copy of the recorded messages.
func (l *List) Entries() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Notice builds the single end-of-run message. A non-empty list always wins:
// timing is never reported when a failure was recorded. The second return value
// is false when there is nothing to report.
func Notice(l *List, elapsed time.Duration, showTiming bool) (string, bool) {
	if !l.Empty() {
		return Header + "\n" + strings.Join(l.entries, "\n"), true
	}
	if showTiming {
		return fmt.Sprintf("Execution took %d milliseconds.", elapsed.Milliseconds()), true
	}
	return "", false
}

// Flush writes the end-of-run notice to w, if there is one.
func Flush(w io.Writer, l *List, elapsed time.Duration, showTiming bool) error {
	msg, ok := Notice(l, elapsed, showTiming)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

package survey

import "fmt"

// LogLevel classifies a run-log entry.
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelWarn
	LevelError
)

// String returns the display form of the level.
func (l LogLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// LogEntry is one stage outcome.
type LogEntry struct {
	Level   LogLevel
	Message string
}

// String formats the entry for direct display.
func (e LogEntry) String() string {
	return fmt.Sprintf("%-5s %s", e.Level, e.Message)
}

// RunLog is the ordered, append-only record of what a pipeline run did:
// imputations, direction flips, spike counts, fallbacks. It is returned
// alongside the output table (or alongside a terminal failure) so the user
// can audit the run. It is not safe for concurrent use; a run owns its log.
type RunLog struct {
	entries []LogEntry
}

// NewRunLog returns an empty log.
func NewRunLog() *RunLog {
	return &RunLog{}
}

// Infof appends an informational entry.
func (r *RunLog) Infof(format string, args ...interface{}) {
	r.entries = append(r.entries, LogEntry{LevelInfo, fmt.Sprintf(format, args...)})
}

// Warnf appends a warning entry.
func (r *RunLog) Warnf(format string, args ...interface{}) {
	r.entries = append(r.entries, LogEntry{LevelWarn, fmt.Sprintf(format, args...)})
}

// Errorf appends an error entry.
func (r *RunLog) Errorf(format string, args ...interface{}) {
	r.entries = append(r.entries, LogEntry{LevelError, fmt.Sprintf(format, args...)})
}

// Entries returns the accumulated entries in order.
func (r *RunLog) Entries() []LogEntry {
	return r.entries
}

// Messages returns the formatted entries, one string per entry, in order.
func (r *RunLog) Messages() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.String()
	}
	return out
}

// Contains reports whether any entry's message contains the substring.
// Intended for tests and callers that branch on recorded outcomes.
func (r *RunLog) Contains(substr string) bool {
	for _, e := range r.entries {
		if containsFold(e.Message, substr) {
			return true
		}
	}
	return false
}

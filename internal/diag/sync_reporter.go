package diag

import (
	"sync"

	"docl/internal/source"
)

// SyncReporter serialises reports from concurrent compilations into one
// Reporter. With Unique set, a diagnostic repeating the code, severity,
// primary span and message of an earlier one is dropped.
type SyncReporter struct {
	mu     sync.Mutex
	next   Reporter
	unique bool
	seen   map[reportKey]struct{}
}

type reportKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// NewSyncReporter wraps next. A nil next drops everything.
func NewSyncReporter(next Reporter, unique bool) *SyncReporter {
	r := &SyncReporter{next: next, unique: unique}
	if unique {
		r.seen = make(map[reportKey]struct{})
	}
	return r
}

func (r *SyncReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.next == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unique {
		key := reportKey{code: code, sev: sev, span: primary, msg: msg}
		if _, dup := r.seen[key]; dup {
			return
		}
		r.seen[key] = struct{}{}
	}
	r.next.Report(code, sev, primary, msg, notes)
}

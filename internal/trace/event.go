package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of an event.
// Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one compile request
	ScopePhase                   // builder stage
	ScopePass                    // pass inside a stage
	ScopeModule                  // single module
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopePass:
		return "pass"
	case ScopeModule:
		return "module"
	default:
		return "unknown"
	}
}

// Event is one record in a trace. Begin and end events of a span share SpanID;
// points and heartbeats carry only the span they happened under.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, increasing
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64 // emitting goroutine
	Name     string // "compile", "resolve_names", "module:std.essential", ...
	Detail   string
	Extra    map[string]string // attached by Span.WithExtra, end events only
}

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a span id never handed out before in this process.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// newEvent stamps an event with the time, a sequence number and the calling
// goroutine.
func newEvent(kind Kind, scope Scope, name string) *Event {
	return &Event{
		Time:  time.Now(),
		Seq:   NextSeq(),
		Kind:  kind,
		Scope: scope,
		GID:   goroutineID(),
		Name:  name,
	}
}

// goroutineID reads the id from the "goroutine 123 [running]:" stack header.
func goroutineID() uint64 {
	var buf [64]byte
	header := buf[:runtime.Stack(buf[:], false)]
	header, ok := bytes.CutPrefix(header, []byte("goroutine "))
	if !ok {
		return 0
	}
	if end := bytes.IndexByte(header, ' '); end >= 0 {
		header = header[:end]
	}
	gid, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

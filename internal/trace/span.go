package trace

import (
	"context"
	"time"
)

// Span is an open operation. A Span that was filtered out by the tracer
// level has ID 0 and all its methods are no-ops.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{parent: parent}
	}
	ev := newEvent(KindSpanBegin, scope, name)
	ev.SpanID = NextSpanID()
	ev.ParentID = parent
	t.Emit(ev)
	return &Span{
		tracer:  t,
		id:      ev.SpanID,
		parent:  parent,
		gid:     ev.GID,
		scope:   scope,
		name:    name,
		started: ev.Time,
	}
}

// Start opens a span under the tracer and current span of ctx. The returned
// context has the new span current, unless the level filtered it out.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if s.id == 0 {
		return ctx, s
	}
	return WithSpanContext(ctx, SpanContext{SpanID: s.id, GID: s.gid}), s
}

// Point emits an instant event under the current span of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() {
		return
	}
	ev := newEvent(KindPoint, scope, name)
	ev.ParentID = CurrentSpan(ctx).SpanID
	ev.Detail = detail
	t.Emit(ev)
}

func (s *Span) recording() bool { return s != nil && s.id != 0 }

// End emits the end event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if !s.recording() {
		return 0
	}
	ev := newEvent(KindSpanEnd, s.scope, s.name)
	ev.SpanID = s.id
	ev.ParentID = s.parent
	ev.GID = s.gid
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Time.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.recording() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, 0 when the span is not recorded.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

package trace

import (
	"context"
	"strconv"
	"time"
)

// Heartbeat emits a liveness event every interval while a long batch runs. A
// stream that keeps beating without span ends points at a stuck compile.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHeartbeat starts beating into tracer. It returns nil when tracing is
// disabled or interval is not positive; Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go h.beat(ctx, tracer, interval)
	return h
}

func (h *Heartbeat) beat(ctx context.Context, tracer Tracer, interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := uint64(1); ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ev := newEvent(KindHeartbeat, ScopeDriver, "heartbeat")
			ev.Detail = "#" + strconv.FormatUint(n, 10)
			tracer.Emit(ev)
		}
	}
}

// Stop ends the heartbeat and waits until no more events are emitted. It may
// be called more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

package audit

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls queueing and stamping of audit events.
type Config struct {
	Enabled    bool
	BufferSize int
	// DropIfFull counts and discards events when the queue is full instead
	// of making the caller wait.
	DropIfFull bool
	// RequestID reads the caller's request id from the context an event is
	// emitted with. Events that already carry one are left alone.
	RequestID func(ctx context.Context) string
	// Now stamps events emitted without a timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Dispatcher stamps audit events on the caller's goroutine and delivers them
// to a sink from a single worker. A nil *Dispatcher discards everything.
type Dispatcher struct {
	cfg  Config
	sink Sink

	mu     sync.RWMutex
	closed bool
	queue  chan Event

	stop     chan struct{}
	stopOnce sync.Once
	finished chan struct{}
	dropped  atomic.Uint64
}

// NewDispatcher starts a dispatcher, or returns nil when auditing is disabled.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		cfg:      cfg,
		sink:     sink,
		queue:    make(chan Event, cfg.BufferSize),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go d.deliver()
	return d
}

// deliver runs until the queue is closed and empty.
func (d *Dispatcher) deliver() {
	defer close(d.finished)
	for event := range d.queue {
		d.sink.Emit(context.Background(), event)
	}
}

// Emit stamps event from ctx and queues it.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	event = d.stamp(ctx, event)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if d.cfg.DropIfFull {
		select {
		case d.queue <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.stop:
	}
}

func (d *Dispatcher) stamp(ctx context.Context, event Event) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = d.cfg.Now().UTC()
	}
	if event.RequestID == "" && d.cfg.RequestID != nil {
		event.RequestID = d.cfg.RequestID(ctx)
	}
	event.Metadata = scrubMetadata(event.Metadata)
	return event
}

// scrubMetadata removes keys that name a credential or a session token.
func scrubMetadata(md map[string]string) map[string]string {
	if len(md) == 0 {
		return md
	}
	var clean map[string]string
	for k, v := range md {
		if isSecretKey(k) {
			continue
		}
		if clean == nil {
			clean = make(map[string]string, len(md))
		}
		clean[k] = v
	}
	return clean
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "password") || strings.Contains(k, "token")
}

// Close stops accepting events, delivers what is queued and waits for the
// worker. Emitters blocked on a full queue are released.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.stopOnce.Do(func() {
		close(d.stop)

		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	<-d.finished
}

// Dropped returns the number of events discarded because the queue was full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Package queue fans audit events out to a fixed pool of workers so request
// handlers never wait on the audit sink.
package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	recordTimeout  = 5 * time.Second
)

// Observer is notified about events that never reach the sink.
type Observer interface {
	AuditDropped()
	AuditFailed()
}

// Dispatcher routes audit events to sharded workers using consistent hashing
// on the username, so events for one user are recorded in order.
type Dispatcher struct {
	workers  []chan domain.AuditEvent
	sink     ports.AuditSink
	log      zerolog.Logger
	observer Observer

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. observer may be nil.
func NewDispatcher(numWorkers int, sink ports.AuditSink, log zerolog.Logger, observer Observer) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.AuditEvent, numWorkers),
		sink:     sink,
		log:      log,
		observer: observer,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. Sink writes inherit ctx values but
// not its cancellation; workers exit once Stop has drained their queues.
func (d *Dispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(base, i, ch)
	}
}

// Enqueue hands the event to the worker responsible for its username. It
// never blocks: when the shard is full or the dispatcher is stopped the
// event is dropped and counted.
func (d *Dispatcher) Enqueue(event domain.AuditEvent) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.drop(event, "dispatcher stopped")
		return
	}

	select {
	case d.workers[d.shardIndex(event.Username)] <- event:
	default:
		d.drop(event, "queue full")
	}
}

// Stop closes the queues and waits for the workers to drain them, or for
// ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued events across all shards.
func (d *Dispatcher) Pending() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(event domain.AuditEvent, reason string) {
	if d.observer != nil {
		d.observer.AuditDropped()
	}
	d.log.Warn().
		Str("action", event.Action).
		Str("username", event.Username).
		Str("reason", reason).
		Msg("audit event dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for event := range ch {
		recordCtx, cancel := context.WithTimeout(ctx, recordTimeout)
		err := d.sink.Record(recordCtx, event)
		cancel()
		if err != nil {
			if d.observer != nil {
				d.observer.AuditFailed()
			}
			d.log.Error().Err(err).
				Str("action", event.Action).
				Str("username", event.Username).
				Int("worker_id", id).
				Msg("audit record failed")
		}
	}
}

var _ ports.Auditor = (*Dispatcher)(nil)

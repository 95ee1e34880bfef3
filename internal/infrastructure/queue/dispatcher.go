package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/api/metrics"
	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

var (
	ErrQueueFull = errors.New("audit queue full")
	ErrClosed    = errors.New("audit dispatcher closed")
)

// Dispatcher moves audit writes off the request path. Entries are routed to a
// fixed set of workers by hashing the entity id, so the entries of one entity
// are written in order. It implements ports.AuditRepository.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	sink    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers writing
// to sink. Non-positive sizes fall back to the defaults.
func NewDispatcher(numWorkers, buffer int, sink ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when Close has drained
// their channel or when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues entry without blocking. A full worker channel drops the
// entry and returns ErrQueueFull.
func (d *Dispatcher) Record(_ context.Context, entry domain.AuditEntry) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	idx := d.shardIndex(entry.EntityID)
	select {
	case d.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.AuditDroppedTotal.Inc()
		return ErrQueueFull
	}
}

// Close stops accepting entries and waits until the workers have written
// what was already queued.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(ctx, id, entry)
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, worker int, entry domain.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := d.sink.Record(ctx, entry); err != nil {
		metrics.AuditErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("entity", entry.Entity).
			Str("entity_id", entry.EntityID).
			Int("worker_id", worker).
			Msg("audit write failed")
	}
}

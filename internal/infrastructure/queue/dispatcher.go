package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dailynotes/notes-api/internal/api/metrics"
	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher routes auth events to a fixed set of workers using
// consistent hashing on the user id (or email when no id is known), which
// keeps each user's trail in order. Record never blocks: events are dropped
// once a shard's buffer is full.
type AuditDispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuthEventRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuthEventRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already
// buffered and exit when ctx is cancelled; Wait blocks until they have.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

func (d *AuditDispatcher) Record(event domain.AuthEvent) {
	idx := d.shardIndex(shardKey(event))
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("kind", string(event.Kind)).Int("worker_id", idx).Msg("audit queue full, event dropped")
	}
}

func shardKey(event domain.AuthEvent) string {
	if event.UserID != "" {
		return event.UserID
	}
	return event.Email
}

// shardIndex maps a key deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case event := <-ch:
					d.write(id, event)
				default:
					metrics.AuditQueueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		case event := <-ch:
			d.write(id, event)
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		}
	}
}

// write uses its own context so events buffered at shutdown still land.
func (d *AuditDispatcher) write(id int, event domain.AuthEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, &event); err != nil {
		metrics.AuditWriteErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("kind", string(event.Kind)).
			Str("user_id", event.UserID).
			Int("worker_id", id).
			Msg("audit event write failed")
	}
}

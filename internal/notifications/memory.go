package notifications

import (
	"context"
	"sync"

	"internhub/internal/metrics"

	"go.uber.org/zap"
)

// AsyncDispatcher queues notifications on a buffered channel drained by a
// fixed pool of workers. A full queue drops the notification.
type AsyncDispatcher struct {
	queue     chan Notification
	deliverer *Deliverer
	logger    *zap.Logger
	workers   int

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewAsyncDispatcher(deliverer *Deliverer, logger *zap.Logger, workers, queueSize int) *AsyncDispatcher {
	if workers < 1 {
		workers = 1
	}
	return &AsyncDispatcher{
		queue:     make(chan Notification, queueSize),
		deliverer: deliverer,
		logger:    logger,
		workers:   workers,
	}
}

func (d *AsyncDispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	d.logger.Info("notification workers started", zap.Int("workers", d.workers), zap.Int("queue", cap(d.queue)))
}

func (d *AsyncDispatcher) Dispatch(_ context.Context, n Notification) {
	if !accept(d.logger, n) {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.Notification(string(n.Kind), metrics.OutcomeDropped)
		d.logger.Warn("notification dispatched after shutdown", zap.String("kind", string(n.Kind)))
		return
	}

	select {
	case d.queue <- n:
		metrics.Notification(string(n.Kind), metrics.OutcomeQueued)
	default:
		metrics.Notification(string(n.Kind), metrics.OutcomeDropped)
		d.logger.Warn("notification queue full, dropping",
			zap.String("id", n.ID),
			zap.String("kind", string(n.Kind)))
	}
}

// Stop closes the queue and waits for workers to drain what is left.
func (d *AsyncDispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *AsyncDispatcher) work() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliverer.deliverAndLog(context.Background(), n)
	}
}

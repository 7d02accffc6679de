package notify

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/agroplaza/identity-api/internal/api/metrics"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher delivers notifications on a fixed set of workers, sharded by
// destination so messages to the same recipient keep their order. Delivery is
// best-effort: failures are logged and never propagated to the workflow that
// enqueued the message, so a slow or failing channel cannot stall or fail a
// state transition that already committed.
type Dispatcher struct {
	workers []chan ports.Notification
	sender  ports.NotificationSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.NotificationSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Notification, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a notification to the worker owning its destination. The
// call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(n ports.Notification) {
	idx := d.shardIndex(n.To)
	d.workers[idx] <- n
	metrics.NotificationsEnqueuedTotal.WithLabelValues(string(n.Channel)).Inc()
	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a destination deterministically to a worker index.
func (d *Dispatcher) shardIndex(destination string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(destination))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, n); err != nil {
				metrics.NotificationsFailedTotal.WithLabelValues(string(n.Channel)).Inc()
				d.log.Error().Err(err).
					Str("channel", string(n.Channel)).
					Str("to", n.To).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
			metrics.NotificationQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
		}
	}
}

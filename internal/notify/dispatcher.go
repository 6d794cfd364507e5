package notify

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/FelixFS3D/uixom/internal/api/metrics"
	"github.com/FelixFS3D/uixom/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans request-created events out to every configured sender using
// a fixed pool of workers, so the triggering HTTP request never waits on
// notification delivery.
type Dispatcher struct {
	queue   chan *domain.ServiceRequest
	senders []Sender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, senders []Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		queue:   make(chan *domain.ServiceRequest, channelBuffer),
		senders: senders,
		log:     log,
	}
	for i := 0; i < numWorkers; i++ {
		go func(id int) {
			d.runWorker(id)
		}(i)
	}
	return d
}

// RequestCreated enqueues a notification. The call never blocks: when the
// queue is full the event is dropped and logged.
func (d *Dispatcher) RequestCreated(r *domain.ServiceRequest) {
	select {
	case d.queue <- r:
	default:
		d.log.Warn().Str("request_id", r.ID).Msg("notification queue full, event dropped")
	}
}

// Close stops the workers once the queue drains.
func (d *Dispatcher) Close() {
	close(d.queue)
}

func (d *Dispatcher) runWorker(id int) {
	for r := range d.queue {
		for _, s := range d.senders {
			if err := s.Send(context.Background(), r); err != nil {
				metrics.NotificationsTotal.WithLabelValues(s.Name(), "failed").Inc()
				d.log.Error().Err(err).
					Str("channel", s.Name()).
					Str("request_id", r.ID).
					Str("worker_id", strconv.Itoa(id)).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues(s.Name(), "sent").Inc()
			d.log.Info().Str("channel", s.Name()).Str("request_id", r.ID).Msg("notification sent")
		}
	}
}

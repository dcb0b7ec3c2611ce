package notify

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/joestump/studyshelf/internal/metrics"
)

// Dispatcher sends announcements on background goroutines so that callers
// never wait on the sink. A nil sink disables delivery.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
	wg      conc.WaitGroup
}

// NewDispatcher creates a Dispatcher. limiter may be nil for no throttling.
func NewDispatcher(sink Sink, timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sink:    sink,
		timeout: timeout,
		limiter: limiter,
		logger:  logger.Named("notify"),
	}
}

// Dispatch queues s for delivery and returns immediately. The delivery keeps
// ctx's values but not its cancellation, and the send gets its own timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, s Submission) {
	if d.sink == nil {
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		d.logger.Debug("webhook not configured, skipping notification", zap.String("resource_id", s.ResourceID))
		return
	}

	detached := context.WithoutCancel(ctx)
	d.wg.Go(func() {
		d.deliver(detached, s)
	})
}

// deliver waits for the limiter without a deadline so that a burst queues
// instead of being dropped. Only the send itself is bounded by the timeout.
func (d *Dispatcher) deliver(ctx context.Context, s Submission) {
	log := d.logger.With(zap.String("resource_id", s.ResourceID))

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			log.Warn("notification throttled", zap.Error(err))
			return
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.sink.Send(sendCtx, s)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		log.Warn("notification failed", zap.Error(err))
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	log.Debug("notification sent")
}

// Wait blocks until every dispatched notification has finished. A panic in a
// delivery goroutine is logged here instead of crashing the process.
func (d *Dispatcher) Wait() {
	if r := d.wg.WaitAndRecover(); r != nil {
		d.logger.Error("notification goroutine panicked", zap.Any("panic", r.Value), zap.ByteString("stack", r.Stack))
	}
}

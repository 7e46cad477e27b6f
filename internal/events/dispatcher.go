package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"
)

// Dispatcher fans an event out to every sink, one after another, each under
// its own timeout. An optional budget bounds the whole fan-out; sinks reached
// after it runs out are skipped and counted as failures.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	budget  time.Duration
	logger  logger.Logger
}

func NewDispatcher(log logger.Logger, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Dispatcher{
		sinks:   sinks,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "event-dispatcher"}),
	}
}

// WithBudget caps the total time of one Dispatch call. Zero means no cap.
func (d *Dispatcher) WithBudget(budget time.Duration) *Dispatcher {
	if budget > 0 {
		d.budget = budget
	}
	return d
}

// Dispatch publishes evt to all sinks. Failures are logged and counted, and
// returned joined for callers that care.
func (d *Dispatcher) Dispatch(ctx context.Context, evt Event) error {
	if d.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.budget)
		defer cancel()
	}

	var errs []error
	for _, sink := range d.sinks {
		var err error
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("skipped: %w", ctxErr)
		} else {
			sctx, cancel := context.WithTimeout(ctx, d.timeout)
			err = sink.Publish(sctx, evt)
			cancel()
		}

		if err != nil {
			metrics.EventSinkFailures.WithLabelValues(sink.Name()).Inc()
			d.logger.Warn("event delivery failed", map[string]interface{}{
				"sink":     sink.Name(),
				"eventId":  evt.ID,
				"type":     string(evt.Type),
				"activity": evt.Activity,
				"error":    err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// SinkNames lists configured sinks in dispatch order.
func (d *Dispatcher) SinkNames() []string {
	names := make([]string, len(d.sinks))
	for i, s := range d.sinks {
		names[i] = s.Name()
	}
	return names
}

// LogSink writes events to the structured log.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Publish(_ context.Context, evt Event) error {
	s.logger.Debug("enrollment event", map[string]interface{}{
		"eventId":          evt.ID,
		"type":             string(evt.Type),
		"activity":         evt.Activity,
		"email":            evt.Email,
		"participantCount": evt.ParticipantCount,
	})
	return nil
}

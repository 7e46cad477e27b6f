// internal/enrollment/service.go
package enrollment

import (
	"context"
	"errors"
	"time"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"
	"mergington-activities/internal/common/observability"
	"mergington-activities/internal/events"
	"mergington-activities/internal/models"
	"mergington-activities/internal/registry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	OperationList       = "list"
	OperationSignup     = "signup"
	OperationUnregister = "unregister"
)

// Service is what the HTTP layer depends on.
type Service interface {
	ListActivities(ctx context.Context) map[string]models.Activity
	Signup(ctx context.Context, activityName, email string) (registry.Result, error)
	Unregister(ctx context.Context, activityName, email string) (registry.Result, error)
}

type service struct {
	registry   *registry.Registry
	dispatcher *events.Dispatcher
	obs        *observability.Observability
	logger     logger.Logger
}

// NewService wraps reg with tracing, metrics and event delivery. A nil
// dispatcher disables events.
func NewService(reg *registry.Registry, dispatcher *events.Dispatcher, obs *observability.Observability, log logger.Logger) Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if dispatcher == nil {
		dispatcher = events.NewDispatcher(log, 0)
	}
	if obs == nil {
		obs = observability.Noop()
	}

	reg.Observe(func(activity string, participants int) {
		metrics.ActivityParticipants.WithLabelValues(activity).Set(float64(participants))
	})

	return &service{
		registry:   reg,
		dispatcher: dispatcher,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "enrollment"}),
	}
}

func (s *service) ListActivities(ctx context.Context) map[string]models.Activity {
	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, "registry.list")
	defer span.End()

	activities := s.registry.List()
	span.SetAttributes(attribute.Int("activity.count", len(activities)))
	s.obs.RecordOperation(ctx, OperationList, "success", time.Since(start))
	return activities
}

func (s *service) Signup(ctx context.Context, activityName, email string) (registry.Result, error) {
	return s.mutate(ctx, OperationSignup, models.EventSignedUp, activityName, email, s.registry.Enroll)
}

func (s *service) Unregister(ctx context.Context, activityName, email string) (registry.Result, error) {
	return s.mutate(ctx, OperationUnregister, models.EventUnregistered, activityName, email, s.registry.Unenroll)
}

func (s *service) mutate(
	ctx context.Context,
	operation string,
	eventType models.EnrollmentEventType,
	activityName, email string,
	apply func(name, email string) (registry.Result, error),
) (registry.Result, error) {
	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, "registry."+operation,
		attribute.String("activity", activityName),
	)
	defer span.End()

	result, err := apply(activityName, email)
	if err != nil {
		status := outcome(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.EnrollmentsTotal.WithLabelValues(activityLabel(err, activityName), operation, status).Inc()
		s.obs.RecordOperation(ctx, operation, status, time.Since(start))
		return registry.Result{}, err
	}

	metrics.EnrollmentsTotal.WithLabelValues(activityName, operation, "success").Inc()
	span.SetAttributes(attribute.Int("activity.participants", result.ParticipantCount))
	s.obs.RecordOperation(ctx, operation, "success", time.Since(start))

	s.logger.Info("enrollment changed", map[string]interface{}{
		"operation":        operation,
		"activity":         activityName,
		"email":            email,
		"participantCount": result.ParticipantCount,
	})

	// The registry is already updated; delivery problems are only logged.
	evt := events.NewEvent(eventType, activityName, email, result.ParticipantCount)
	_ = s.dispatcher.Dispatch(context.WithoutCancel(ctx), evt)

	return result, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return "rejected"
	default:
		return "error"
	}
}

// Names that missed the registry are arbitrary client input.
func activityLabel(err error, activityName string) string {
	if errors.Is(err, apperrors.ErrNotFound) {
		return "unknown"
	}
	return activityName
}

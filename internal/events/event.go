// Package events delivers enrollment changes to external sinks. Delivery is
// best effort: the registry has already been updated when an event is built,
// and a failing sink never rolls it back.
package events

import (
	"context"
	"time"

	"mergington-activities/internal/models"

	"github.com/google/uuid"
)

// Event records one successful enroll or unenroll.
type Event struct {
	ID               string                     `json:"id"`
	Type             models.EnrollmentEventType `json:"type"`
	Activity         string                     `json:"activity"`
	Email            string                     `json:"email"`
	ParticipantCount int                        `json:"participantCount"`
	OccurredAt       time.Time                  `json:"occurredAt"`
}

func NewEvent(eventType models.EnrollmentEventType, activity, email string, participantCount int) Event {
	return Event{
		ID:               uuid.New().String(),
		Type:             eventType,
		Activity:         activity,
		Email:            email,
		ParticipantCount: participantCount,
		OccurredAt:       time.Now().UTC(),
	}
}

// Sink is a destination for enrollment events.
type Sink interface {
	Name() string
	Publish(ctx context.Context, evt Event) error
}

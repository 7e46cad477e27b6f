// Package registry holds the in-memory activity registry: the single source
// of truth for activities and their participants during a process lifetime.
package registry

import (
	"fmt"
	"sort"
	"sync"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/models"
)

// Result describes a successful enrollment change.
type Result struct {
	Activity         string
	Email            string
	Message          string
	ParticipantCount int
}

// Option configures a Registry.
type Option func(*Registry)

// WithCapacityEnforcement rejects enrollments once max_participants is reached.
// Off by default: participant count may exceed capacity.
func WithCapacityEnforcement(enabled bool) Option {
	return func(r *Registry) {
		r.enforceCapacity = enabled
	}
}

// ChangeFunc receives an activity's participant count after a change. It runs
// with the registry lock held and must not call back into the registry.
type ChangeFunc func(activity string, participants int)

// Registry maps activity names to records. Mutations take the write lock for
// the whole check-and-modify; reads return deep copies.
type Registry struct {
	mu              sync.RWMutex
	activities      map[string]*models.Activity
	enforceCapacity bool
	onChange        ChangeFunc
}

// New builds a registry from seed records.
func New(seed []models.Activity, opts ...Option) (*Registry, error) {
	r := &Registry{activities: make(map[string]*models.Activity, len(seed))}
	for _, opt := range opts {
		opt(r)
	}

	for _, a := range seed {
		if a.Name == "" {
			return nil, fmt.Errorf("seed activity with empty name")
		}
		if _, dup := r.activities[a.Name]; dup {
			return nil, fmt.Errorf("duplicate activity %q in seed", a.Name)
		}
		if a.MaxParticipants <= 0 {
			return nil, fmt.Errorf("activity %q: max_participants must be positive", a.Name)
		}
		seen := make(map[string]struct{}, len(a.Participants))
		for _, p := range a.Participants {
			if _, dup := seen[p]; dup {
				return nil, fmt.Errorf("activity %q: duplicate participant %q", a.Name, p)
			}
			seen[p] = struct{}{}
		}
		c := a.Clone()
		r.activities[a.Name] = &c
	}
	return r, nil
}

// List returns a snapshot of every activity keyed by name.
func (r *Registry) List() map[string]models.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.Clone()
	}
	return out
}

// Get returns a snapshot of one activity.
func (r *Registry) Get(name string) (models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return models.Activity{}, apperrors.NewActivityNotFoundError(name)
	}
	return a.Clone(), nil
}

// Names returns activity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.activities))
	for name := range r.activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Observe installs fn and immediately reports every current count to it, so
// observers never see counts out of mutation order.
func (r *Registry) Observe(fn ChangeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onChange = fn
	if fn == nil {
		return
	}
	for name, a := range r.activities {
		fn(name, len(a.Participants))
	}
}

func (r *Registry) notify(name string, a *models.Activity) {
	if r.onChange != nil {
		r.onChange(name, len(a.Participants))
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.activities)
}

// Enroll appends email to the activity's participants.
// Checks, in order: activity exists, email not already enrolled, capacity (if enforced).
func (r *Registry) Enroll(name, email string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return Result{}, apperrors.NewActivityNotFoundError(name)
	}
	if a.HasParticipant(email) {
		return Result{}, apperrors.NewAlreadySignedUpError(name, email)
	}
	if r.enforceCapacity && a.SpotsLeft() <= 0 {
		return Result{}, apperrors.NewActivityFullError(name, a.MaxParticipants)
	}

	a.Participants = append(a.Participants, email)
	r.notify(name, a)
	return Result{
		Activity:         name,
		Email:            email,
		Message:          fmt.Sprintf("Signed up %s for %s", email, name),
		ParticipantCount: len(a.Participants),
	}, nil
}

// Unenroll removes one occurrence of email from the activity's participants.
// Checks, in order: activity exists, email enrolled.
func (r *Registry) Unenroll(name, email string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return Result{}, apperrors.NewActivityNotFoundError(name)
	}
	if !a.RemoveParticipant(email) {
		return Result{}, apperrors.NewNotSignedUpError(name, email)
	}
	r.notify(name, a)

	return Result{
		Activity:         name,
		Email:            email,
		Message:          fmt.Sprintf("Unregistered %s from %s", email, name),
		ParticipantCount: len(a.Participants),
	}, nil
}

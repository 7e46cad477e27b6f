// internal/models/activity.go
package models

// Activity is an extracurricular offering. Name is the registry key and is
// carried outside the JSON record.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Clone returns a deep copy; Participants is never nil.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// HasParticipant reports whether email is enrolled.
func (a Activity) HasParticipant(email string) bool {
	return a.indexOf(email) >= 0
}

// SpotsLeft is advisory and may be negative when enrollment is not capped.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

func (a Activity) indexOf(email string) int {
	for i, p := range a.Participants {
		if p == email {
			return i
		}
	}
	return -1
}

// RemoveParticipant removes the first occurrence of email, preserving order.
func (a *Activity) RemoveParticipant(email string) bool {
	i := a.indexOf(email)
	if i < 0 {
		return false
	}
	a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
	return true
}

// EnrollmentEventType names an enrollment state change.
type EnrollmentEventType string

const (
	EventSignedUp     EnrollmentEventType = "signed_up"
	EventUnregistered EnrollmentEventType = "unregistered"
)

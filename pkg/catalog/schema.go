// pkg/catalog/schema.go
package catalog

import "mergington-activities/internal/models"

// Catalog is the on-disk seed for the activity registry.
type Catalog struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Activities  []Entry `json:"activities"`
}

type Entry struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ToModels converts catalog entries into registry seed records.
func (c *Catalog) ToModels() []models.Activity {
	out := make([]models.Activity, 0, len(c.Activities))
	for _, e := range c.Activities {
		participants := make([]string, len(e.Participants))
		copy(participants, e.Participants)
		out = append(out, models.Activity{
			Name:            e.Name,
			Description:     e.Description,
			Schedule:        e.Schedule,
			MaxParticipants: e.MaxParticipants,
			Participants:    participants,
		})
	}
	return out
}

// Find returns the entry with the given name.
func (c *Catalog) Find(name string) (*Entry, bool) {
	for i := range c.Activities {
		if c.Activities[i].Name == name {
			return &c.Activities[i], true
		}
	}
	return nil, false
}

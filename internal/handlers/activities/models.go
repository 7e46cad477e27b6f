package activities

import "mergington-activities/internal/models"

// ActivityResponse is one entry of the GET /activities map.
type ActivityResponse struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// MembershipRequest carries the typed inputs of signup and unregister.
type MembershipRequest struct {
	ActivityName string
	Email        string
}

func toActivityResponse(a models.Activity) ActivityResponse {
	participants := a.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityResponse{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}

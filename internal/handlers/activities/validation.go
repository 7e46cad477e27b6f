package activities

import (
	"net/http"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/validation"
)

const (
	fieldActivityName = "activityName"
	fieldEmail        = "email"

	// Matches the participant maxLength in the catalog schema so every seeded
	// participant can still be unregistered.
	maxEmailLength = 254
)

func membershipRules() map[string][]validation.Rule {
	return map[string][]validation.Rule{
		fieldActivityName: {validation.Required()},
		fieldEmail:        {validation.Required(), validation.MaxLength(maxEmailLength)},
	}
}

// parseMembershipRequest reads the decoded path segment and the email query
// parameter. Names are not length checked: any name missing from the registry
// must reach it and come back as not found. Email syntax is not checked.
func parseMembershipRequest(r *http.Request) (MembershipRequest, error) {
	req := MembershipRequest{
		ActivityName: r.PathValue("name"),
		Email:        r.URL.Query().Get("email"),
	}

	result := validation.ValidateParams(map[string]string{
		fieldActivityName: req.ActivityName,
		fieldEmail:        req.Email,
	}, membershipRules())
	if first := result.First(); first != nil {
		return MembershipRequest{}, apperrors.NewInvalidInputError(first.Field, first.Message)
	}
	return req, nil
}

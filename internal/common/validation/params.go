package validation

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// First returns the first error by field name, or nil.
func (r *ValidationResult) First() *ValidationError {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// Rule checks one parameter value; nil means it passed.
type Rule func(field, value string) *ValidationError

// Required rejects only the empty string; whitespace is a value.
func Required() Rule {
	return func(field, value string) *ValidationError {
		if value == "" {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s is required", field),
				Code:    "REQUIRED_FIELD_MISSING",
			}
		}
		return nil
	}
}

func MaxLength(n int) Rule {
	return func(field, value string) *ValidationError {
		if utf8.RuneCountInString(value) > n {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s must be at most %d characters", field, n),
				Code:    "MAX_LENGTH_VIOLATION",
			}
		}
		return nil
	}
}

// ValidateParams applies rules to params. Fields are checked in name order and
// each field stops at its first failing rule.
func ValidateParams(params map[string]string, rules map[string][]Rule) *ValidationResult {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errors := []ValidationError{}
	for _, field := range fields {
		for _, rule := range rules[field] {
			if verr := rule(field, params[field]); verr != nil {
				errors = append(errors, *verr)
				break
			}
		}
	}

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

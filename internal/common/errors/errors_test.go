package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Warn(msg string, _ map[string]interface{})  { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.errors = append(l.errors, msg) }

func TestConstructors_KindsAndStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      *StandardError
		kind     error
		status   int
		category string
		contains string
	}{
		{"not found", NewActivityNotFoundError("Nope"), ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Activity not found"},
		{"already signed up", NewAlreadySignedUpError("Chess Club", "a@b.edu"), ErrInvalidRequest, http.StatusBadRequest, "BUSINESS_RULE", "already signed up"},
		{"not signed up", NewNotSignedUpError("Chess Club", "a@b.edu"), ErrInvalidRequest, http.StatusBadRequest, "BUSINESS_RULE", "not signed up"},
		{"full", NewActivityFullError("Chess Club", 12), ErrInvalidRequest, http.StatusBadRequest, "BUSINESS_RULE", "full"},
		{"invalid input", NewInvalidInputError("email", "email is required"), ErrInvalidInput, http.StatusUnprocessableEntity, "VALIDATION", "required"},
		{"internal", NewInternalError(fmt.Errorf("disk on fire")), ErrInternal, http.StatusInternalServerError, "INTERNAL", "Internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, stderrors.Is(tt.err, tt.kind))
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.Equal(t, tt.category, GetErrorCategory(tt.err.Code))
			assert.Contains(t, tt.err.Message, tt.contains)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestNormalize(t *testing.T) {
	orig := NewActivityNotFoundError("X")
	wrapped := fmt.Errorf("lookup: %w", orig)
	assert.Same(t, orig, Normalize(wrapped))

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.True(t, plain.Retryable)
}

func TestErrorHandler_WriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
		wantWarn   bool
	}{
		{"not found is warned", NewActivityNotFoundError("Nonexistent Club"), http.StatusNotFound, "Activity not found", true},
		{"business rule is warned", NewAlreadySignedUpError("Chess Club", "m@x.edu"), http.StatusBadRequest, "Student is already signed up for this activity", true},
		{"unknown error is logged as error", stderrors.New("unexpected"), http.StatusInternalServerError, "Internal server error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			h := NewErrorHandler(log)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/activities/x/signup", nil)

			h.WriteError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDetail, body.Detail)

			if tt.wantWarn {
				assert.Len(t, log.warns, 1)
				assert.Empty(t, log.errors)
			} else {
				assert.Len(t, log.errors, 1)
				assert.Empty(t, log.warns)
			}
		})
	}
}

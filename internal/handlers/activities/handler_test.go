package activities

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/models"
	"mergington-activities/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockService struct {
	mock.Mock
}

func (m *MockService) ListActivities(ctx context.Context) map[string]models.Activity {
	args := m.Called(ctx)
	return args.Get(0).(map[string]models.Activity)
}

func (m *MockService) Signup(ctx context.Context, activityName, email string) (registry.Result, error) {
	args := m.Called(ctx, activityName, email)
	return args.Get(0).(registry.Result), args.Error(1)
}

func (m *MockService) Unregister(ctx context.Context, activityName, email string) (registry.Result, error) {
	args := m.Called(ctx, activityName, email)
	return args.Get(0).(registry.Result), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func newTestMux(t *testing.T, svc *MockService) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(svc, logger.NewTestLogger(t)).Register(mux)
	return mux
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ==========================
// List
// ==========================

func TestList(t *testing.T) {
	svc := new(MockService)
	svc.On("ListActivities", mock.Anything).Return(map[string]models.Activity{
		"Chess Club": {
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Empty Club": {Name: "Empty Club", MaxParticipants: 5},
	})

	rec := serve(newTestMux(t, svc), http.MethodGet, "/activities")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]ActivityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 12, body["Chess Club"].MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, body["Chess Club"].Participants)
	assert.Contains(t, rec.Body.String(), `"participants":[]`)
	assert.NotContains(t, rec.Body.String(), `"name"`)
	svc.AssertExpectations(t)
}

// ==========================
// Signup
// ==========================

func TestSignup(t *testing.T) {
	longName := strings.Repeat("B", 201)

	tests := []struct {
		name       string
		target     string
		setupMock  func(*MockService)
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{
			name:   "success with encoded name",
			target: "/activities/Chess%20Club/signup?email=newstudent@mergington.edu",
			setupMock: func(m *MockService) {
				m.On("Signup", mock.Anything, "Chess Club", "newstudent@mergington.edu").Return(registry.Result{
					Message: "Signed up newstudent@mergington.edu for Chess Club",
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantKey:    "message",
			wantValue:  "Signed up newstudent@mergington.edu for Chess Club",
		},
		{
			name:   "unknown activity",
			target: "/activities/Nonexistent%20Club/signup?email=x@y.edu",
			setupMock: func(m *MockService) {
				m.On("Signup", mock.Anything, "Nonexistent Club", "x@y.edu").
					Return(registry.Result{}, apperrors.NewActivityNotFoundError("Nonexistent Club"))
			},
			wantStatus: http.StatusNotFound,
			wantKey:    "detail",
			wantValue:  "Activity not found",
		},
		{
			name:   "already signed up",
			target: "/activities/Chess%20Club/signup?email=michael@mergington.edu",
			setupMock: func(m *MockService) {
				m.On("Signup", mock.Anything, "Chess Club", "michael@mergington.edu").
					Return(registry.Result{}, apperrors.NewAlreadySignedUpError("Chess Club", "michael@mergington.edu"))
			},
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
			wantValue:  "Student is already signed up for this activity",
		},
		{
			name:       "missing email",
			target:     "/activities/Chess%20Club/signup",
			setupMock:  func(m *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantKey:    "detail",
			wantValue:  "email is required",
		},
		{
			name:   "whitespace email is passed through",
			target: "/activities/Chess%20Club/signup?email=%20",
			setupMock: func(m *MockService) {
				m.On("Signup", mock.Anything, "Chess Club", " ").Return(registry.Result{
					Message: "Signed up   for Chess Club",
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantKey:    "message",
			wantValue:  "Signed up   for Chess Club",
		},
		{
			name:   "long unknown name reaches the registry",
			target: "/activities/" + longName + "/signup?email=a@b.edu",
			setupMock: func(m *MockService) {
				m.On("Signup", mock.Anything, longName, "a@b.edu").
					Return(registry.Result{}, apperrors.NewActivityNotFoundError(longName))
			},
			wantStatus: http.StatusNotFound,
			wantKey:    "detail",
			wantValue:  "Activity not found",
		},
		{
			name:   "whitespace activity name",
			target: "/activities/%20/signup?email=a@b.edu",
			setupMock: func(m *MockService) {
				m.On("Signup", mock.Anything, " ", "a@b.edu").Return(registry.Result{
					Message: "Signed up a@b.edu for  ",
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantKey:    "message",
			wantValue:  "Signed up a@b.edu for  ",
		},
		{
			name:       "overlong email",
			target:     "/activities/Chess%20Club/signup?email=" + strings.Repeat("e", 255),
			setupMock:  func(m *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantKey:    "detail",
			wantValue:  "email must be at most 254 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			rec := serve(newTestMux(t, svc), http.MethodPost, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantValue, decodeBody(t, rec)[tt.wantKey])
			svc.AssertExpectations(t)
		})
	}
}

func TestSignup_WrongMethod(t *testing.T) {
	svc := new(MockService)

	rec := serve(newTestMux(t, svc), http.MethodGet, "/activities/Chess%20Club/signup?email=a@b.edu")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

// ==========================
// Unregister
// ==========================

func TestUnregister(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(*MockService)
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{
			name:   "success",
			target: "/activities/Chess%20Club/unregister?email=michael@mergington.edu",
			setupMock: func(m *MockService) {
				m.On("Unregister", mock.Anything, "Chess Club", "michael@mergington.edu").Return(registry.Result{
					Message: "Unregistered michael@mergington.edu from Chess Club",
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantKey:    "message",
			wantValue:  "Unregistered michael@mergington.edu from Chess Club",
		},
		{
			name:   "not signed up",
			target: "/activities/Chess%20Club/unregister?email=nobody@mergington.edu",
			setupMock: func(m *MockService) {
				m.On("Unregister", mock.Anything, "Chess Club", "nobody@mergington.edu").
					Return(registry.Result{}, apperrors.NewNotSignedUpError("Chess Club", "nobody@mergington.edu"))
			},
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
			wantValue:  "Student is not signed up for this activity",
		},
		{
			name:   "unknown activity",
			target: "/activities/Robotics/unregister?email=a@b.edu",
			setupMock: func(m *MockService) {
				m.On("Unregister", mock.Anything, "Robotics", "a@b.edu").
					Return(registry.Result{}, apperrors.NewActivityNotFoundError("Robotics"))
			},
			wantStatus: http.StatusNotFound,
			wantKey:    "detail",
			wantValue:  "Activity not found",
		},
		{
			name:       "missing email",
			target:     "/activities/Robotics/unregister",
			setupMock:  func(m *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantKey:    "detail",
			wantValue:  "email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			rec := serve(newTestMux(t, svc), http.MethodDelete, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantValue, decodeBody(t, rec)[tt.wantKey])
			svc.AssertExpectations(t)
		})
	}
}

func TestUnexpectedErrorIs500(t *testing.T) {
	svc := new(MockService)
	svc.On("Signup", mock.Anything, "Chess Club", "a@b.edu").
		Return(registry.Result{}, assert.AnError)

	rec := serve(newTestMux(t, svc), http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["detail"])
}

package enrollment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"
	"mergington-activities/internal/common/observability"
	"mergington-activities/internal/events"
	"mergington-activities/internal/models"
	"mergington-activities/internal/registry"
	"mergington-activities/pkg/catalog"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type captureSink struct {
	mu     sync.Mutex
	err    error
	events []events.Event
}

func (c *captureSink) Name() string { return "capture" }

func (c *captureSink) Publish(_ context.Context, evt events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return c.err
}

type fixture struct {
	svc      Service
	reg      *registry.Registry
	sink     *captureSink
	recorder *tracetest.SpanRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	reg, err := registry.New(cat.ToModels())
	require.NoError(t, err)

	sink := &captureSink{}
	recorder := tracetest.NewSpanRecorder()
	obs := observability.New("enrollment-test", observability.WithTracing(recorder))
	t.Cleanup(obs.Shutdown)

	log := logger.NewTestLogger(t)
	return &fixture{
		svc:      NewService(reg, events.NewDispatcher(log, time.Second, sink), obs, log),
		reg:      reg,
		sink:     sink,
		recorder: recorder,
	}
}

func TestSignup_Success(t *testing.T) {
	f := newFixture(t)
	before := testutil.ToFloat64(metrics.EnrollmentsTotal.WithLabelValues("Chess Club", OperationSignup, "success"))

	result, err := f.svc.Signup(context.Background(), "Chess Club", "newstudent@mergington.edu")

	require.NoError(t, err)
	assert.Equal(t, "Signed up newstudent@mergington.edu for Chess Club", result.Message)
	assert.Equal(t, 3, result.ParticipantCount)

	require.Len(t, f.sink.events, 1)
	assert.Equal(t, models.EventSignedUp, f.sink.events[0].Type)
	assert.Equal(t, "newstudent@mergington.edu", f.sink.events[0].Email)

	after := testutil.ToFloat64(metrics.EnrollmentsTotal.WithLabelValues("Chess Club", OperationSignup, "success"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.ActivityParticipants.WithLabelValues("Chess Club")))

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "registry.signup", spans[0].Name())
}

func TestSignup_Duplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Signup(context.Background(), "Chess Club", "michael@mergington.edu")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))
	assert.Empty(t, f.sink.events)
}

func TestSignup_UnknownActivity(t *testing.T) {
	f := newFixture(t)
	before := testutil.ToFloat64(metrics.EnrollmentsTotal.WithLabelValues("unknown", OperationSignup, "not_found"))

	_, err := f.svc.Signup(context.Background(), "Unknown Club", "a@mergington.edu")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EnrollmentsTotal.WithLabelValues("unknown", OperationSignup, "not_found")))
	assert.Equal(t, 2, len(f.svc.ListActivities(context.Background())))
}

func TestUnregister_Success(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Unregister(context.Background(), "Chess Club", "michael@mergington.edu")

	require.NoError(t, err)
	assert.Equal(t, "Unregistered michael@mergington.edu from Chess Club", result.Message)
	require.Len(t, f.sink.events, 1)
	assert.Equal(t, models.EventUnregistered, f.sink.events[0].Type)

	a, err := f.reg.Get("Chess Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"daniel@mergington.edu"}, a.Participants)
}

func TestUnregister_NotEnrolled(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Unregister(context.Background(), "Chess Club", "nobody@mergington.edu")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))
	assert.Empty(t, f.sink.events)
}

func TestSinkFailureDoesNotFailSignup(t *testing.T) {
	f := newFixture(t)
	f.sink.err = errors.New("stream unavailable")

	result, err := f.svc.Signup(context.Background(), "Programming Class", "newstudent@mergington.edu")

	require.NoError(t, err)
	assert.Equal(t, 3, result.ParticipantCount)
	a, err := f.reg.Get("Programming Class")
	require.NoError(t, err)
	assert.Contains(t, a.Participants, "newstudent@mergington.edu")
}

func TestSignup_CancelledRequestStillDispatches(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Signup(ctx, "Chess Club", "late@mergington.edu")

	require.NoError(t, err)
	assert.Len(t, f.sink.events, 1)
}

func TestListActivities(t *testing.T) {
	f := newFixture(t)

	activities := f.svc.ListActivities(context.Background())

	require.Contains(t, activities, "Chess Club")
	assert.Equal(t, 12, activities["Chess Club"].MaxParticipants)
	assert.Equal(t, []string{"emma@mergington.edu", "sophia@mergington.edu"}, activities["Programming Class"].Participants)
}

func TestNewService_Defaults(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	reg, err := registry.New(cat.ToModels())
	require.NoError(t, err)

	svc := NewService(reg, nil, nil, nil)
	_, err = svc.Signup(context.Background(), "Chess Club", "x@mergington.edu")
	assert.NoError(t, err)
}

func TestParticipantGaugeFollowsConcurrentChanges(t *testing.T) {
	f := newFixture(t)

	const workers = 30
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("gauge%d@mergington.edu", i)
			_, _ = f.svc.Signup(context.Background(), "Programming Class", email)
			if i%3 == 0 {
				_, _ = f.svc.Unregister(context.Background(), "Programming Class", email)
			}
		}(i)
	}
	wg.Wait()

	a, err := f.reg.Get("Programming Class")
	require.NoError(t, err)
	assert.Equal(t, float64(len(a.Participants)),
		testutil.ToFloat64(metrics.ActivityParticipants.WithLabelValues("Programming Class")))
}

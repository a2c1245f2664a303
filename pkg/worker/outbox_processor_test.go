package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/pkg/logger"
	"github.com/medadmin/hospital-api/pkg/metrics"
)

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[primitive.ObjectID]model.OutboxStatus
	errors   map[primitive.ObjectID]string
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{
		pending:  events,
		statuses: make(map[primitive.ObjectID]model.OutboxStatus),
		errors:   make(map[primitive.ObjectID]string),
	}
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	r.pending = append(r.pending, e)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status model.OutboxStatus, errorMessage *string) error {
	r.statuses[id] = status
	if errorMessage != nil {
		r.errors[id] = *errorMessage
	}
	return nil
}

func (r *fakeOutboxRepo) DeleteAll(_ context.Context) error {
	r.pending = nil
	return nil
}

type fakeBroker struct {
	published    []interface{}
	failuresLeft int
	attempts     int
}

func (b *fakeBroker) Publish(_ context.Context, _ string, message interface{}) error {
	b.attempts++
	if b.failuresLeft > 0 {
		b.failuresLeft--
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, message)
	return nil
}

func (b *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

func (b *fakeBroker) Close() error { return nil }

func pendingEvent(eventType string) *model.OutboxEvent {
	payload, _ := json.Marshal(model.UserEventPayload{UserID: primitive.NewObjectID().Hex()})
	return &model.OutboxEvent{
		ID:        primitive.NewObjectID(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}
}

func testConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
		Channel:       "events",
	}
}

func newProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, testConfig(), logger.NewLogger(nil), metrics.New("test"))
}

func TestProcessEventsMarksPublishedProcessed(t *testing.T) {
	event := pendingEvent(model.EventUserRegistered)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{}

	require.NoError(t, newProcessor(repo, broker).ProcessEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])
	assert.Len(t, broker.published, 1)
}

func TestProcessEventsRetriesTransientFailures(t *testing.T) {
	event := pendingEvent(model.EventUserRegistered)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{failuresLeft: 2}

	require.NoError(t, newProcessor(repo, broker).ProcessEvents(context.Background()))

	assert.Equal(t, 3, broker.attempts)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])
}

func TestProcessEventsMarksExhaustedRetriesFailed(t *testing.T) {
	event := pendingEvent(model.EventUserDeleted)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{failuresLeft: 100}

	require.NoError(t, newProcessor(repo, broker).ProcessEvents(context.Background()))

	assert.Equal(t, 3, broker.attempts)
	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[event.ID])
	assert.NotEmpty(t, repo.errors[event.ID])
	assert.Empty(t, broker.published)
}

func TestProcessEventsContinuesPastFailingEvent(t *testing.T) {
	failing := pendingEvent(model.EventUserRegistered)
	healthy := pendingEvent(model.EventUserRegistered)
	repo := newFakeOutboxRepo(failing, healthy)
	// Exactly enough failures to exhaust retries on the first event.
	broker := &fakeBroker{failuresLeft: 3}

	require.NoError(t, newProcessor(repo, broker).ProcessEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[failing.ID])
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[healthy.ID])
}

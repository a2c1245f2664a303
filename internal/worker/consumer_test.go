package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/pkg/logger"
	"github.com/medadmin/hospital-api/pkg/messaging"
)

type recordingHandler struct {
	created []*model.UserEventPayload
	deleted []*model.UserEventPayload
	fail    bool
}

func (h *recordingHandler) CreateProfileForUser(_ context.Context, p *model.UserEventPayload) error {
	if h.fail {
		return errors.New("handler failure")
	}
	h.created = append(h.created, p)
	return nil
}

func (h *recordingHandler) DeleteProfileForUser(_ context.Context, p *model.UserEventPayload) error {
	if h.fail {
		return errors.New("handler failure")
	}
	h.deleted = append(h.deleted, p)
	return nil
}

func rawMessage(t *testing.T, eventType string, payload model.UserEventPayload) []byte {
	t.Helper()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(messaging.Message{Type: eventType, Payload: json.RawMessage(encoded)})
	require.NoError(t, err)
	return raw
}

func TestHandleMessageDispatchesRegistration(t *testing.T) {
	doctorH := &recordingHandler{}
	patientH := &recordingHandler{}
	c := NewProfileConsumer(nil, "events", logger.NewLogger(nil), doctorH, patientH)

	payload := model.UserEventPayload{
		UserID: primitive.NewObjectID().Hex(),
		Email:  "medic@example.com",
		Role:   model.RoleMedic,
	}

	require.NoError(t, c.handleMessage(context.Background(), rawMessage(t, model.EventUserRegistered, payload)))

	// Every handler sees the event; role filtering happens inside the services.
	require.Len(t, doctorH.created, 1)
	require.Len(t, patientH.created, 1)
	assert.Equal(t, payload.UserID, doctorH.created[0].UserID)
	assert.Empty(t, doctorH.deleted)
}

func TestHandleMessageDispatchesDeletion(t *testing.T) {
	h := &recordingHandler{}
	c := NewProfileConsumer(nil, "events", logger.NewLogger(nil), h)

	payload := model.UserEventPayload{UserID: primitive.NewObjectID().Hex(), Role: model.RolePatient}
	require.NoError(t, c.handleMessage(context.Background(), rawMessage(t, model.EventUserDeleted, payload)))

	assert.Empty(t, h.created)
	require.Len(t, h.deleted, 1)
}

func TestHandleMessageIgnoresUnknownEvents(t *testing.T) {
	h := &recordingHandler{}
	c := NewProfileConsumer(nil, "events", logger.NewLogger(nil), h)

	raw := rawMessage(t, "SOMETHING_ELSE", model.UserEventPayload{UserID: "x"})
	require.NoError(t, c.handleMessage(context.Background(), raw))

	assert.Empty(t, h.created)
	assert.Empty(t, h.deleted)
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	h := &recordingHandler{}
	c := NewProfileConsumer(nil, "events", logger.NewLogger(nil), h)

	err := c.handleMessage(context.Background(), []byte("not json"))
	require.Error(t, err)
	assert.Empty(t, h.created)
}

func TestDispatchStopsOnHandlerError(t *testing.T) {
	failing := &recordingHandler{fail: true}
	second := &recordingHandler{}
	c := NewProfileConsumer(nil, "events", logger.NewLogger(nil), failing, second)

	err := c.Dispatch(context.Background(), model.EventUserRegistered, &model.UserEventPayload{
		UserID: primitive.NewObjectID().Hex(),
		Role:   model.RoleMedic,
	})
	require.Error(t, err)
	// The event is retried whole; later handlers did not run this round.
	assert.Empty(t, second.created)
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/pkg/logger"
	"github.com/medadmin/hospital-api/pkg/messaging"
)

// ProfileHandler reacts to user lifecycle events. Both the doctor and the
// patient service implement it; each one ignores events for roles it does
// not own.
type ProfileHandler interface {
	CreateProfileForUser(ctx context.Context, payload *model.UserEventPayload) error
	DeleteProfileForUser(ctx context.Context, payload *model.UserEventPayload) error
}

// ProfileConsumer subscribes to the event channel and keeps profiles in
// sync with user accounts. Handlers must be idempotent: the broker
// redelivers on failure.
type ProfileConsumer struct {
	broker   messaging.Broker
	channel  string
	handlers []ProfileHandler
	logger   *logger.Logger
}

func NewProfileConsumer(broker messaging.Broker, channel string, logger *logger.Logger, handlers ...ProfileHandler) *ProfileConsumer {
	if channel == "" {
		channel = "events"
	}
	return &ProfileConsumer{
		broker:   broker,
		channel:  channel,
		handlers: handlers,
		logger:   logger,
	}
}

func (c *ProfileConsumer) Start(ctx context.Context) error {
	messages, err := c.broker.Subscribe(ctx, c.channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.channel, err)
	}

	c.logger.Info("starting profile consumer", "channel", c.channel)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("shutting down profile consumer")
			return nil
		case raw, ok := <-messages:
			if !ok {
				return fmt.Errorf("subscription to %s closed", c.channel)
			}
			if err := c.handleMessage(ctx, raw); err != nil {
				c.logger.Error(err, "failed to handle event")
			}
		}
	}
}

func (c *ProfileConsumer) handleMessage(ctx context.Context, raw []byte) error {
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}

	switch msg.Type {
	case model.EventUserRegistered, model.EventUserDeleted:
	default:
		c.logger.Debug("ignoring event", "event_type", msg.Type)
		return nil
	}

	var payload model.UserEventPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", msg.Type, err)
	}

	return c.Dispatch(ctx, msg.Type, &payload)
}

// Dispatch routes one decoded event to every handler. The first handler
// error aborts the dispatch so the event can be retried whole; handlers
// that already ran tolerate the replay.
func (c *ProfileConsumer) Dispatch(ctx context.Context, eventType string, payload *model.UserEventPayload) error {
	for _, h := range c.handlers {
		var err error
		switch eventType {
		case model.EventUserRegistered:
			err = h.CreateProfileForUser(ctx, payload)
		case model.EventUserDeleted:
			err = h.DeleteProfileForUser(ctx, payload)
		}
		if err != nil {
			return fmt.Errorf("handler failed for %s: %w", eventType, err)
		}
	}

	c.logger.Info("processed user event",
		"event_type", eventType,
		"user_id", payload.UserID,
		"role", payload.Role)
	return nil
}

package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Event types published through the outbox.
const (
	EventUserRegistered = "USER_REGISTERED"
	EventUserDeleted    = "USER_DELETED"
)

// OutboxEvent is written in the same service call that mutates state and
// later published by the outbox processor. Delivery is at-least-once;
// consumers must be idempotent.
type OutboxEvent struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventType    string             `bson:"event_type" json:"event_type"`
	Payload      json.RawMessage    `bson:"payload" json:"payload"`
	Status       OutboxStatus       `bson:"status" json:"status"`
	ErrorMessage *string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
	RetryCount   int                `bson:"retry_count" json:"retry_count"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	ProcessedAt  *time.Time         `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserEventPayload is the payload of USER_REGISTERED and USER_DELETED events.
type UserEventPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

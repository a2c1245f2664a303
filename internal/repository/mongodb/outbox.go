package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/repository"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
)

type outboxRepository struct {
	coll *mongo.Collection
}

func NewOutboxRepository(db *DB) repository.OutboxRepository {
	return &outboxRepository{coll: db.Collection(collOutbox)}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	event.ID = primitive.NewObjectID()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"status": model.OutboxStatusPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*model.OutboxEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode outbox events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OutboxStatus, errorMessage *string) error {
	now := time.Now()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	if status == model.OutboxStatusProcessed {
		set["processed_at"] = now
	}
	if errorMessage != nil {
		set["error_message"] = *errorMessage
	}

	update := bson.M{"$set": set}
	if status == model.OutboxStatusFailed {
		update["$inc"] = bson.M{"retry_count": 1}
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update outbox event status: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("outbox event", nil)
	}
	return nil
}

func (r *outboxRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete outbox events: %w", err)
	}
	return nil
}

package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	collUsers        = "users"
	collDoctors      = "doctors"
	collPatients     = "patients"
	collAppointments = "appointments"
	collOutbox       = "outbox_events"
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// DB wraps the mongo database handle shared by all repositories.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDB connects to the document store and ensures indexes.
func NewDB(cfg Config) (*DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := &DB{
		client: client,
		db:     client.Database(cfg.Database),
	}

	if err := db.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return db, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(collUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = d.db.Collection(collOutbox).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return err
	}

	// user_id is unique so redelivered registration events cannot insert a
	// second profile for the same user.
	for _, coll := range []string{collDoctors, collPatients} {
		_, err = d.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Ping verifies store connectivity, used by the readiness probe.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

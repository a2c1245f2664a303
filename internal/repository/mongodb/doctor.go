package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/repository"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
)

type doctorRepository struct {
	coll *mongo.Collection
}

func NewDoctorRepository(db *DB) repository.DoctorRepository {
	return &doctorRepository{coll: db.Collection(collDoctors)}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	doctor.ID = primitive.NewObjectID()
	doctor.Touch(time.Now())

	if _, err := r.coll.InsertOne(ctx, doctor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("doctor profile already exists for user", err)
		}
		return fmt.Errorf("failed to create doctor profile: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doctor); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doctor); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor profile by user: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor profiles: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := make([]*model.Doctor, 0)
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctor profiles: %w", err)
	}
	return doctors, nil
}

// SearchByName matches case-insensitive substrings. When both names are
// supplied the predicates are combined with AND.
func (r *doctorRepository) SearchByName(ctx context.Context, firstName, lastName string) ([]*model.Doctor, error) {
	filter := bson.M{}
	if firstName != "" {
		filter["first_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(firstName), Options: "i"}
	}
	if lastName != "" {
		filter["last_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(lastName), Options: "i"}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search doctor profiles: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := make([]*model.Doctor, 0)
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctor profiles: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete doctor profile: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete doctor profile by user: %w", err)
	}
	return nil
}

func (r *doctorRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete doctor profiles: %w", err)
	}
	return nil
}

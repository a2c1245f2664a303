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

type patientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *DB) repository.PatientRepository {
	return &patientRepository{coll: db.Collection(collPatients)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	patient.ID = primitive.NewObjectID()
	patient.Touch(time.Now())

	if _, err := r.coll.InsertOne(ctx, patient); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("patient profile already exists for user", err)
		}
		return fmt.Errorf("failed to create patient profile: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
	var patient model.Patient
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&patient); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Patient, error) {
	var patient model.Patient
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&patient); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient profile by user: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list patient profiles: %w", err)
	}
	defer cursor.Close(ctx)

	patients := make([]*model.Patient, 0)
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("failed to decode patient profiles: %w", err)
	}
	return patients, nil
}

// SearchByName matches case-insensitive substrings. When both names are
// supplied the predicates are combined with AND.
func (r *patientRepository) SearchByName(ctx context.Context, firstName, lastName string) ([]*model.Patient, error) {
	filter := bson.M{}
	if firstName != "" {
		filter["first_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(firstName), Options: "i"}
	}
	if lastName != "" {
		filter["last_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(lastName), Options: "i"}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search patient profiles: %w", err)
	}
	defer cursor.Close(ctx)

	patients := make([]*model.Patient, 0)
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("failed to decode patient profiles: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update patient profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete patient profile: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete patient profile by user: %w", err)
	}
	return nil
}

func (r *patientRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete patient profiles: %w", err)
	}
	return nil
}

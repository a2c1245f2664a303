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

type appointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *DB) repository.AppointmentRepository {
	return &appointmentRepository{coll: db.Collection(collAppointments)}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	appointment.ID = primitive.NewObjectID()
	appointment.Touch(time.Now())

	if _, err := r.coll.InsertOne(ctx, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	filter := bson.M{}
	if filters != nil {
		if !filters.PatientID.IsZero() {
			filter["patient_id"] = filters.PatientID
		}
		if !filters.DoctorID.IsZero() {
			filter["doctor_id"] = filters.DoctorID
		}
		if filters.Status != "" {
			filter["status"] = filters.Status
		}
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := make([]*model.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	appointment.UpdatedAt = time.Now()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": appointment.ID}, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete appointments: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles account identity documents
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id primitive.ObjectID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context) ([]*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id primitive.ObjectID) error
		DeleteAll(ctx context.Context) error
	}

	// DoctorRepository handles doctor profile documents
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id primitive.ObjectID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
		SearchByName(ctx context.Context, firstName, lastName string) ([]*model.Doctor, error)
		UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
		Delete(ctx context.Context, id primitive.ObjectID) error
		DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
		DeleteAll(ctx context.Context) error
	}

	// PatientRepository handles patient profile documents
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		SearchByName(ctx context.Context, firstName, lastName string) ([]*model.Patient, error)
		UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
		Delete(ctx context.Context, id primitive.ObjectID) error
		DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
		DeleteAll(ctx context.Context) error
	}

	// AppointmentRepository handles appointment documents
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id primitive.ObjectID) error
		DeleteAll(ctx context.Context) error
	}

	// OutboxRepository handles the event outbox collection
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OutboxStatus, errorMessage *string) error
		DeleteAll(ctx context.Context) error
	}
)

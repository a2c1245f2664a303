package appointment

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/repository"
	"github.com/medadmin/hospital-api/internal/service/callsession"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
)

type AppointmentService interface {
	Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	Reschedule(ctx context.Context, id primitive.ObjectID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error)
	Cancel(ctx context.Context, id primitive.ObjectID, reason string) (*model.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	callSvc     *callsession.Service
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository, callSvc *callsession.Service) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		callSvc:     callSvc,
	}
}

// Create validates both profile references and acquires a call-session
// token before persisting. No conflict detection is attempted.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid patient ID", err)
	}
	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid doctor ID", err)
	}

	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	sessionToken, err := s.callSvc.IssueToken(req.PatientID, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire call session: %w", err)
	}

	appointment := &model.Appointment{
		PatientID:     patientID,
		DoctorID:      doctorID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        model.AppointmentStatusScheduled,
		Notes:         req.Notes,
		CallSessionID: sessionToken,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Reschedule(ctx context.Context, id primitive.ObjectID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if appointment.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.Conflict("appointment is cancelled", nil)
	}

	appointment.StartTime = req.StartTime
	appointment.EndTime = req.EndTime
	appointment.Status = model.AppointmentStatusRescheduled

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) Cancel(ctx context.Context, id primitive.ObjectID, reason string) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	appointment.Status = model.AppointmentStatusCancelled
	appointment.CancelReason = reason

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

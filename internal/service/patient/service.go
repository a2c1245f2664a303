package patient

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/repository"
	"github.com/medadmin/hospital-api/internal/service/ability"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
	"github.com/medadmin/hospital-api/pkg/logger"
	"github.com/medadmin/hospital-api/pkg/storage"
)

type PatientService interface {
	List(ctx context.Context) ([]*model.Patient, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error)
	SearchByName(ctx context.Context, firstName, lastName string) ([]*model.Patient, error)
	EditBasic(ctx context.Context, id primitive.ObjectID, req *model.EditPatientRequest, actor *model.User) (*model.Patient, error)
	UploadAvatar(ctx context.Context, id primitive.ObjectID, reader io.Reader, size int64, fileName, contentType string, actor *model.User) (string, error)
	EditAvatar(ctx context.Context, id primitive.ObjectID, reader io.Reader, size int64, fileName, contentType string, actor *model.User) (string, error)
	DeleteAvatar(ctx context.Context, id primitive.ObjectID, actor *model.User) error
	BulkDelete(ctx context.Context) error
	CreateProfileForUser(ctx context.Context, payload *model.UserEventPayload) error
	DeleteProfileForUser(ctx context.Context, payload *model.UserEventPayload) error
}

type Service struct {
	repo    repository.PatientRepository
	storage storage.ObjectStorage
	logger  *logger.Logger
}

func NewService(repo repository.PatientRepository, storage storage.ObjectStorage, logger *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) SearchByName(ctx context.Context, firstName, lastName string) ([]*model.Patient, error) {
	return s.repo.SearchByName(ctx, firstName, lastName)
}

// EditBasic applies the fixed attribute subset ordinary edits may touch.
// The user reference is never written here.
func (s *Service) EditBasic(ctx context.Context, id primitive.ObjectID, req *model.EditPatientRequest, actor *model.User) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ability.BuildForUser(actor).Can(model.ActionUpdate, model.SubjectPatient, patient) {
		return nil, apperrors.Forbidden("not allowed to edit this profile")
	}

	fields := make(map[string]interface{})
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Telephone != nil {
		fields["telephone"] = *req.Telephone
	}
	if req.Occupation != nil {
		fields["occupation"] = *req.Occupation
	}
	if req.MaritalStatus != nil {
		fields["marital_status"] = *req.MaritalStatus
	}
	if req.MedicalIssues != nil {
		fields["medical_issues"] = req.MedicalIssues
	}
	if req.Prescriptions != nil {
		fields["prescriptions"] = req.Prescriptions
	}
	if req.PharmacyTelephone != nil {
		fields["pharmacy_telephone"] = *req.PharmacyTelephone
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) UploadAvatar(ctx context.Context, id primitive.ObjectID, reader io.Reader, size int64, fileName, contentType string, actor *model.User) (string, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if !ability.BuildForUser(actor).Can(model.ActionUpdate, model.SubjectPatient, patient) {
		return "", apperrors.Forbidden("not allowed to edit this profile")
	}

	objectName := avatarObjectName(id, fileName)
	url, err := s.storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{
		"image_url":    url,
		"image_object": objectName,
	}); err != nil {
		return "", err
	}

	return url, nil
}

// EditAvatar swaps the avatar upload-first so a failed upload leaves the
// previous avatar intact.
func (s *Service) EditAvatar(ctx context.Context, id primitive.ObjectID, reader io.Reader, size int64, fileName, contentType string, actor *model.User) (string, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if !ability.BuildForUser(actor).Can(model.ActionUpdate, model.SubjectPatient, patient) {
		return "", apperrors.Forbidden("not allowed to edit this profile")
	}

	oldObject := patient.ImageObject

	objectName := avatarObjectName(id, fileName)
	url, err := s.storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{
		"image_url":    url,
		"image_object": objectName,
	}); err != nil {
		return "", err
	}

	if oldObject != "" && oldObject != objectName {
		if err := s.storage.Delete(ctx, oldObject); err != nil {
			s.logger.Error(err, "failed to delete previous avatar object", "object", oldObject)
		}
	}

	return url, nil
}

func (s *Service) DeleteAvatar(ctx context.Context, id primitive.ObjectID, actor *model.User) error {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if !ability.BuildForUser(actor).Can(model.ActionUpdate, model.SubjectPatient, patient) {
		return apperrors.Forbidden("not allowed to edit this profile")
	}

	if patient.ImageObject == "" {
		return apperrors.NotFound("avatar", nil)
	}

	// Clear the profile first so the stored URL never points at a deleted
	// object; the object removal is best-effort.
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{
		"image_url":    "",
		"image_object": "",
	}); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, patient.ImageObject); err != nil {
		s.logger.Error(err, "failed to delete avatar object", "object", patient.ImageObject)
	}

	return nil
}

// BulkDelete removes all patient profiles. Admin-only, irreversible.
func (s *Service) BulkDelete(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

// CreateProfileForUser reacts to USER_REGISTERED events for the patient
// role. Idempotent under redelivery.
func (s *Service) CreateProfileForUser(ctx context.Context, payload *model.UserEventPayload) error {
	if payload.Role != model.RolePatient {
		return nil
	}

	userID, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID in event payload: %w", err)
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		// A transient lookup failure must not be mistaken for a miss;
		// redelivery retries after the store recovers.
		return fmt.Errorf("failed to check for existing patient profile: %w", err)
	}
	if existing != nil {
		return nil
	}

	patient := &model.Patient{
		UserID:        userID,
		MaritalStatus: model.MaritalStatusSingle,
		MedicalIssues: []string{},
		Prescriptions: []string{},
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		// A concurrent delivery won the insert race; the unique user_id
		// index reports it as a conflict and the profile already exists.
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to create patient profile for user %s: %w", payload.UserID, err)
	}

	s.logger.Info("created patient profile from registration event", "user_id", payload.UserID)
	return nil
}

// DeleteProfileForUser reacts to USER_DELETED events.
func (s *Service) DeleteProfileForUser(ctx context.Context, payload *model.UserEventPayload) error {
	if payload.Role != model.RolePatient {
		return nil
	}

	userID, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID in event payload: %w", err)
	}

	return s.repo.DeleteByUserID(ctx, userID)
}

func avatarObjectName(id primitive.ObjectID, fileName string) string {
	return fmt.Sprintf("patients/%s/%d-%s", id.Hex(), time.Now().UnixNano(), fileName)
}

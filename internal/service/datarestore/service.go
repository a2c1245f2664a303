package datarestore

import (
	"context"
	"fmt"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/repository"
	"github.com/medadmin/hospital-api/pkg/logger"
	"github.com/medadmin/hospital-api/pkg/security"
)

// Service restores the store to its pristine demo state: all collections
// wiped, bootstrap admin re-seeded. Admin-only and irreversible.
type Service struct {
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	outboxRepo      repository.OutboxRepository
	hasher          security.PasswordHasher
	adminEmail      string
	adminPassword   string
	logger          *logger.Logger
}

func NewService(
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	outboxRepo repository.OutboxRepository,
	hasher security.PasswordHasher,
	adminEmail, adminPassword string,
	logger *logger.Logger,
) *Service {
	return &Service{
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		outboxRepo:      outboxRepo,
		hasher:          hasher,
		adminEmail:      adminEmail,
		adminPassword:   adminPassword,
		logger:          logger,
	}
}

func (s *Service) Restore(ctx context.Context) error {
	if err := s.appointmentRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear appointments: %w", err)
	}
	if err := s.doctorRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear doctor profiles: %w", err)
	}
	if err := s.patientRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear patient profiles: %w", err)
	}
	if err := s.outboxRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear outbox: %w", err)
	}
	if err := s.userRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	hashed, err := s.hasher.Hash(s.adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	admin := &model.User{
		Email:        s.adminEmail,
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	s.logger.Info("data restore completed", "admin_email", s.adminEmail)
	return nil
}

package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/repository"
	"github.com/medadmin/hospital-api/pkg/auth"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
	"github.com/medadmin/hospital-api/pkg/security"
)

type Service struct {
	userRepo   repository.UserRepository
	outboxRepo repository.OutboxRepository
	jwtSvc     auth.JWTService
	hasher     security.PasswordHasher
	oauth      *OAuthProvider
}

func NewService(userRepo repository.UserRepository, outboxRepo repository.OutboxRepository,
	jwtSvc auth.JWTService, hasher security.PasswordHasher, oauth *OAuthProvider) *Service {
	return &Service{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		jwtSvc:     jwtSvc,
		hasher:     hasher,
		oauth:      oauth,
	}
}

// Register creates a role-tagged account. The USER_REGISTERED outbox event
// decouples profile creation from the registration response: registration
// succeeds even if profile creation later fails.
func (s *Service) Register(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	if existing, _ := s.userRepo.GetByEmail(ctx, email); existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}

	// Unique index on email catches the check-then-create race.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.emitUserEvent(ctx, model.EventUserRegistered, user); err != nil {
		return nil, fmt.Errorf("failed to enqueue registration event: %w", err)
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtSvc.Expiry().Seconds()),
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.jwtSvc.RevokeToken(token)
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

func (s *Service) GetUser(ctx context.Context, claims *model.TokenClaims) (*model.User, error) {
	return s.userRepo.Get(ctx, claims.UserID)
}

func (s *Service) TokenExpiry() int64 {
	return int64(s.jwtSvc.Expiry().Seconds())
}

func (s *Service) emitUserEvent(ctx context.Context, eventType string, user *model.User) error {
	payload, err := json.Marshal(model.UserEventPayload{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal user event: %w", err)
	}

	return s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	})
}

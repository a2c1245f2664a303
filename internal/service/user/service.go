package user

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/repository"
)

type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Service struct {
	repo       repository.UserRepository
	outboxRepo repository.OutboxRepository
}

func NewService(repo repository.UserRepository, outboxRepo repository.OutboxRepository) *Service {
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
	}
}

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Delete removes the account and enqueues USER_DELETED so the role-matched
// profile consumer removes the orphan profile. At-least-once, not
// transactional: a crash between the two writes is healed on redelivery.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	payload, err := json.Marshal(model.UserEventPayload{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal user event: %w", err)
	}

	return s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: model.EventUserDeleted,
		Payload:   payload,
	})
}

package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	jwtauth "github.com/medadmin/hospital-api/pkg/auth"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
	"github.com/medadmin/hospital-api/pkg/security"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.Conflict("email already registered", nil)
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) List(_ context.Context) ([]*model.User, error) {
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DeleteAll(_ context.Context) error {
	r.users = make(map[primitive.ObjectID]*model.User)
	return nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	r.events = append(r.events, e)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.events) > limit {
		return r.events[:limit], nil
	}
	return r.events, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, _ primitive.ObjectID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func (r *fakeOutboxRepo) DeleteAll(_ context.Context) error {
	r.events = nil
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeOutboxRepo) {
	userRepo := newFakeUserRepo()
	outboxRepo := &fakeOutboxRepo{}
	jwtSvc := jwtauth.NewJWTService("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(4)
	return NewService(userRepo, outboxRepo, jwtSvc, hasher, nil), userRepo, outboxRepo
}

func TestRegisterCreatesUserAndEmitsEvent(t *testing.T) {
	svc, userRepo, outboxRepo := newTestService()

	user, err := svc.Register(context.Background(), "medic@example.com", "str0ngpass", model.RoleMedic)
	require.NoError(t, err)
	assert.Equal(t, model.RoleMedic, user.Role)
	assert.NotEqual(t, "str0ngpass", user.PasswordHash)
	assert.Len(t, userRepo.users, 1)

	require.Len(t, outboxRepo.events, 1)
	event := outboxRepo.events[0]
	assert.Equal(t, model.EventUserRegistered, event.EventType)

	var payload model.UserEventPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, user.ID.Hex(), payload.UserID)
	assert.Equal(t, model.RoleMedic, payload.Role)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	svc, userRepo, _ := newTestService()

	_, err := svc.Register(context.Background(), "dup@example.com", "str0ngpass", model.RolePatient)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "dup@example.com", "str0ngpass", model.RolePatient)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Len(t, userRepo.users, 1)
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, _, _ := newTestService()

	user, err := svc.Register(context.Background(), "patient@example.com", "str0ngpass", model.RolePatient)
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "patient@example.com", "str0ngpass")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)

	claims, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RolePatient, claims.Role)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "patient@example.com", "str0ngpass", model.RolePatient)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "patient@example.com", "wrongpass")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Login(context.Background(), "nobody@example.com", "str0ngpass")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "patient@example.com", "str0ngpass", model.RolePatient)
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "patient@example.com", "str0ngpass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.AccessToken))

	_, err = svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

package patient

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
	"github.com/medadmin/hospital-api/pkg/logger"
)

type fakePatientRepo struct {
	docs           map[primitive.ObjectID]*model.Patient
	getByUserIDErr error
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{docs: make(map[primitive.ObjectID]*model.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	// user_id carries a unique index in the real store.
	if !p.UserID.IsZero() {
		for _, existing := range r.docs {
			if existing.UserID == p.UserID {
				return apperrors.Conflict("patient profile already exists for user", nil)
			}
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.docs[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, id primitive.ObjectID) (*model.Patient, error) {
	p, ok := r.docs[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *fakePatientRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*model.Patient, error) {
	if r.getByUserIDErr != nil {
		return nil, r.getByUserIDErr
	}
	for _, p := range r.docs {
		if p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (r *fakePatientRepo) List(_ context.Context) ([]*model.Patient, error) {
	out := make([]*model.Patient, 0, len(r.docs))
	for _, p := range r.docs {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePatientRepo) SearchByName(_ context.Context, firstName, lastName string) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range r.docs {
		if firstName != "" && !strings.Contains(strings.ToLower(p.FirstName), strings.ToLower(firstName)) {
			continue
		}
		if lastName != "" && !strings.Contains(strings.ToLower(p.LastName), strings.ToLower(lastName)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePatientRepo) UpdateFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	p, ok := r.docs[id]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}
	for k, v := range fields {
		switch k {
		case "image_url":
			p.ImageURL = v.(string)
		case "image_object":
			p.ImageObject = v.(string)
		}
	}
	return nil
}

func (r *fakePatientRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.docs, id)
	return nil
}

func (r *fakePatientRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) error {
	for id, p := range r.docs {
		if p.UserID == userID {
			delete(r.docs, id)
		}
	}
	return nil
}

func (r *fakePatientRepo) DeleteAll(_ context.Context) error {
	r.docs = make(map[primitive.ObjectID]*model.Patient)
	return nil
}

type fakeStorage struct {
	deleted    []string
	failDelete bool
}

func (s *fakeStorage) Upload(_ context.Context, objectName string, _ io.Reader, _ int64, _ string) (string, error) {
	return "http://storage.local/avatars/" + objectName, nil
}

func (s *fakeStorage) Delete(_ context.Context, objectName string) error {
	if s.failDelete {
		return errors.New("storage unavailable")
	}
	s.deleted = append(s.deleted, objectName)
	return nil
}

func newTestService(repo *fakePatientRepo, store *fakeStorage) *Service {
	return NewService(repo, store, logger.NewLogger(nil))
}

func adminActor() *model.User {
	u := &model.User{Role: model.RoleAdmin}
	u.ID = primitive.NewObjectID()
	return u
}

func TestCreateProfileForUserIsIdempotent(t *testing.T) {
	repo := newFakePatientRepo()
	svc := newTestService(repo, &fakeStorage{})

	payload := &model.UserEventPayload{
		UserID: primitive.NewObjectID().Hex(),
		Email:  "patient@example.com",
		Role:   model.RolePatient,
	}

	require.NoError(t, svc.CreateProfileForUser(context.Background(), payload))
	// Redelivery of the same event must not create a second profile.
	require.NoError(t, svc.CreateProfileForUser(context.Background(), payload))

	assert.Len(t, repo.docs, 1)
	for _, p := range repo.docs {
		assert.Equal(t, payload.UserID, p.UserID.Hex())
		assert.Equal(t, model.MaritalStatusSingle, p.MaritalStatus)
	}
}

func TestCreateProfileForUserSurfacesTransientLookupError(t *testing.T) {
	repo := newFakePatientRepo()
	svc := newTestService(repo, &fakeStorage{})

	payload := &model.UserEventPayload{
		UserID: primitive.NewObjectID().Hex(),
		Role:   model.RolePatient,
	}
	require.NoError(t, svc.CreateProfileForUser(context.Background(), payload))

	// Redelivery while the store is flaky: the lookup failure must surface
	// so the event is retried, not be mistaken for a missing profile.
	repo.getByUserIDErr = errors.New("connection reset by peer")
	err := svc.CreateProfileForUser(context.Background(), payload)
	require.Error(t, err)
	assert.Len(t, repo.docs, 1)
}

func TestCreateProfileForUserInsertRaceIsIdempotent(t *testing.T) {
	repo := newFakePatientRepo()
	svc := newTestService(repo, &fakeStorage{})

	payload := &model.UserEventPayload{
		UserID: primitive.NewObjectID().Hex(),
		Role:   model.RolePatient,
	}
	require.NoError(t, svc.CreateProfileForUser(context.Background(), payload))

	// A concurrent consumer raced past the existence check: the insert
	// hits the unique user_id constraint and counts as already done.
	repo.getByUserIDErr = apperrors.NotFound("patient", nil)
	require.NoError(t, svc.CreateProfileForUser(context.Background(), payload))
	assert.Len(t, repo.docs, 1)
}

func TestDeleteAvatarClearsProfileEvenWhenObjectRemovalFails(t *testing.T) {
	repo := newFakePatientRepo()
	p := &model.Patient{
		UserID:      primitive.NewObjectID(),
		FirstName:   "Ana",
		ImageURL:    "http://storage.local/avatars/old",
		ImageObject: "patients/old",
	}
	require.NoError(t, repo.Create(context.Background(), p))
	store := &fakeStorage{failDelete: true}
	svc := newTestService(repo, store)

	// The orphaned object is tolerable; a URL pointing at nothing is not.
	require.NoError(t, svc.DeleteAvatar(context.Background(), p.ID, adminActor()))

	after, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, after.ImageURL)
	assert.Empty(t, after.ImageObject)
}

package doctor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
)

type fakeDoctorService struct {
	doctors     map[primitive.ObjectID]*model.Doctor
	searchCalls [][2]string
	editErr     error
}

func newFakeDoctorService(doctors ...*model.Doctor) *fakeDoctorService {
	byID := make(map[primitive.ObjectID]*model.Doctor)
	for _, d := range doctors {
		byID[d.ID] = d
	}
	return &fakeDoctorService{doctors: byID}
}

func (s *fakeDoctorService) List(_ context.Context) ([]*model.Doctor, error) {
	out := make([]*model.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (s *fakeDoctorService) Get(_ context.Context, id primitive.ObjectID) (*model.Doctor, error) {
	d, ok := s.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return d, nil
}

func (s *fakeDoctorService) SearchByName(_ context.Context, firstName, lastName string) ([]*model.Doctor, error) {
	s.searchCalls = append(s.searchCalls, [2]string{firstName, lastName})
	return nil, nil
}

func (s *fakeDoctorService) EditBasic(_ context.Context, id primitive.ObjectID, _ *model.EditDoctorRequest, _ *model.User) (*model.Doctor, error) {
	if s.editErr != nil {
		return nil, s.editErr
	}
	return s.Get(context.Background(), id)
}

func (s *fakeDoctorService) AssignDepartment(_ context.Context, id primitive.ObjectID, _ string) (*model.Doctor, error) {
	return s.Get(context.Background(), id)
}

func (s *fakeDoctorService) UploadAvatar(_ context.Context, _ primitive.ObjectID, _ io.Reader, _ int64, _, _ string, _ *model.User) (string, error) {
	return "http://storage.local/a", nil
}

func (s *fakeDoctorService) EditAvatar(_ context.Context, _ primitive.ObjectID, _ io.Reader, _ int64, _, _ string, _ *model.User) (string, error) {
	return "http://storage.local/a", nil
}

func (s *fakeDoctorService) DeleteAvatar(_ context.Context, _ primitive.ObjectID, _ *model.User) error {
	return nil
}

func (s *fakeDoctorService) BulkDelete(_ context.Context) error { return nil }

func (s *fakeDoctorService) CreateProfileForUser(_ context.Context, _ *model.UserEventPayload) error {
	return nil
}

func (s *fakeDoctorService) DeleteProfileForUser(_ context.Context, _ *model.UserEventPayload) error {
	return nil
}

func setupRouter(svc *fakeDoctorService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	passthrough := func(c *gin.Context) { c.Next() }
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"), passthrough)
	return engine
}

func TestListReturnsDoctors(t *testing.T) {
	d := &model.Doctor{FirstName: "John"}
	d.ID = primitive.NewObjectID()
	engine := setupRouter(newFakeDoctorService(d))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "John")
}

func TestListWithNameParamsSearches(t *testing.T) {
	svc := newFakeDoctorService()
	engine := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors?first_name=jo&last_name=ca", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.searchCalls, 1)
	assert.Equal(t, [2]string{"jo", "ca"}, svc.searchCalls[0])
}

func TestGetMalformedIDIsBadRequest(t *testing.T) {
	engine := setupRouter(newFakeDoctorService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/not-hex", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAbsentIsNotFound(t *testing.T) {
	engine := setupRouter(newFakeDoctorService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors/"+primitive.NewObjectID().Hex(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditForbiddenMapsTo403(t *testing.T) {
	svc := newFakeDoctorService()
	svc.editErr = apperrors.Forbidden("not allowed to edit this profile")
	engine := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/doctors/"+primitive.NewObjectID().Hex(),
		strings.NewReader(`{"first_name":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEditRejectsInvalidMaritalStatus(t *testing.T) {
	engine := setupRouter(newFakeDoctorService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/doctors/"+primitive.NewObjectID().Hex(),
		strings.NewReader(`{"marital_status":"complicated"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

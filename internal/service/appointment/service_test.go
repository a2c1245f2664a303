package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/service/callsession"
	apperrors "github.com/medadmin/hospital-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments map[primitive.ObjectID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[primitive.ObjectID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id primitive.ObjectID) (*model.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		if !filters.DoctorID.IsZero() && a.DoctorID != filters.DoctorID {
			continue
		}
		if !filters.PatientID.IsZero() && a.PatientID != filters.PatientID {
			continue
		}
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	if _, ok := r.appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) DeleteAll(_ context.Context) error {
	r.appointments = make(map[primitive.ObjectID]*model.Appointment)
	return nil
}

// profileRepo backs both profile repositories with just existence checks.
type profileRepo struct {
	known map[primitive.ObjectID]bool
}

func newProfileRepo(ids ...primitive.ObjectID) *profileRepo {
	known := make(map[primitive.ObjectID]bool)
	for _, id := range ids {
		known[id] = true
	}
	return &profileRepo{known: known}
}

func (r *profileRepo) get(id primitive.ObjectID) error {
	if !r.known[id] {
		return apperrors.NotFound("profile", nil)
	}
	return nil
}

type fakeDoctorRepo struct{ *profileRepo }

func (r fakeDoctorRepo) Create(_ context.Context, _ *model.Doctor) error { return nil }
func (r fakeDoctorRepo) Get(_ context.Context, id primitive.ObjectID) (*model.Doctor, error) {
	if err := r.get(id); err != nil {
		return nil, err
	}
	return &model.Doctor{}, nil
}
func (r fakeDoctorRepo) GetByUserID(_ context.Context, _ primitive.ObjectID) (*model.Doctor, error) {
	return nil, apperrors.NotFound("doctor", nil)
}
func (r fakeDoctorRepo) List(_ context.Context) ([]*model.Doctor, error) { return nil, nil }
func (r fakeDoctorRepo) SearchByName(_ context.Context, _, _ string) ([]*model.Doctor, error) {
	return nil, nil
}
func (r fakeDoctorRepo) UpdateFields(_ context.Context, _ primitive.ObjectID, _ map[string]interface{}) error {
	return nil
}
func (r fakeDoctorRepo) Delete(_ context.Context, _ primitive.ObjectID) error         { return nil }
func (r fakeDoctorRepo) DeleteByUserID(_ context.Context, _ primitive.ObjectID) error { return nil }
func (r fakeDoctorRepo) DeleteAll(_ context.Context) error                            { return nil }

type fakePatientRepo struct{ *profileRepo }

func (r fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }
func (r fakePatientRepo) Get(_ context.Context, id primitive.ObjectID) (*model.Patient, error) {
	if err := r.get(id); err != nil {
		return nil, err
	}
	return &model.Patient{}, nil
}
func (r fakePatientRepo) GetByUserID(_ context.Context, _ primitive.ObjectID) (*model.Patient, error) {
	return nil, apperrors.NotFound("patient", nil)
}
func (r fakePatientRepo) List(_ context.Context) ([]*model.Patient, error) { return nil, nil }
func (r fakePatientRepo) SearchByName(_ context.Context, _, _ string) ([]*model.Patient, error) {
	return nil, nil
}
func (r fakePatientRepo) UpdateFields(_ context.Context, _ primitive.ObjectID, _ map[string]interface{}) error {
	return nil
}
func (r fakePatientRepo) Delete(_ context.Context, _ primitive.ObjectID) error         { return nil }
func (r fakePatientRepo) DeleteByUserID(_ context.Context, _ primitive.ObjectID) error { return nil }
func (r fakePatientRepo) DeleteAll(_ context.Context) error                            { return nil }

func newTestService(patientID, doctorID primitive.ObjectID) (*Service, *fakeAppointmentRepo) {
	repo := newFakeAppointmentRepo()
	svc := NewService(
		repo,
		fakePatientRepo{newProfileRepo(patientID)},
		fakeDoctorRepo{newProfileRepo(doctorID)},
		callsession.NewService("call-secret", time.Hour),
	)
	return svc, repo
}

func validRequest(patientID, doctorID primitive.ObjectID) *model.CreateAppointmentRequest {
	start := time.Now().Add(24 * time.Hour)
	return &model.CreateAppointmentRequest{
		PatientID: patientID.Hex(),
		DoctorID:  doctorID.Hex(),
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}
}

func TestCreateAcquiresCallSession(t *testing.T) {
	patientID, doctorID := primitive.NewObjectID(), primitive.NewObjectID()
	svc, _ := newTestService(patientID, doctorID)

	appt, err := svc.Create(context.Background(), validRequest(patientID, doctorID))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, patientID, appt.PatientID)
	assert.Equal(t, doctorID, appt.DoctorID)
	assert.NotEmpty(t, appt.CallSessionID)
}

func TestCreateRejectsUnknownProfiles(t *testing.T) {
	patientID, doctorID := primitive.NewObjectID(), primitive.NewObjectID()
	svc, repo := newTestService(patientID, doctorID)

	req := validRequest(primitive.NewObjectID(), doctorID)
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, repo.appointments)
}

func TestCreateRejectsMalformedIDs(t *testing.T) {
	patientID, doctorID := primitive.NewObjectID(), primitive.NewObjectID()
	svc, _ := newTestService(patientID, doctorID)

	req := validRequest(patientID, doctorID)
	req.DoctorID = "not-a-hex-id"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestRescheduleMovesSlot(t *testing.T) {
	patientID, doctorID := primitive.NewObjectID(), primitive.NewObjectID()
	svc, _ := newTestService(patientID, doctorID)

	appt, err := svc.Create(context.Background(), validRequest(patientID, doctorID))
	require.NoError(t, err)

	newStart := appt.StartTime.Add(48 * time.Hour)
	updated, err := svc.Reschedule(context.Background(), appt.ID, &model.RescheduleAppointmentRequest{
		StartTime: newStart,
		EndTime:   newStart.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusRescheduled, updated.Status)
	assert.Equal(t, newStart, updated.StartTime)
}

func TestRescheduleCancelledIsConflict(t *testing.T) {
	patientID, doctorID := primitive.NewObjectID(), primitive.NewObjectID()
	svc, _ := newTestService(patientID, doctorID)

	appt, err := svc.Create(context.Background(), validRequest(patientID, doctorID))
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), appt.ID, "patient request")
	require.NoError(t, err)

	_, err = svc.Reschedule(context.Background(), appt.ID, &model.RescheduleAppointmentRequest{
		StartTime: time.Now().Add(72 * time.Hour),
		EndTime:   time.Now().Add(73 * time.Hour),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestCancelKeepsRecord(t *testing.T) {
	patientID, doctorID := primitive.NewObjectID(), primitive.NewObjectID()
	svc, repo := newTestService(patientID, doctorID)

	appt, err := svc.Create(context.Background(), validRequest(patientID, doctorID))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), appt.ID, "patient request")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	assert.Equal(t, "patient request", cancelled.CancelReason)
	assert.Len(t, repo.appointments, 1)
}

func TestListFiltersByStatus(t *testing.T) {
	patientID, doctorID := primitive.NewObjectID(), primitive.NewObjectID()
	svc, _ := newTestService(patientID, doctorID)

	first, err := svc.Create(context.Background(), validRequest(patientID, doctorID))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validRequest(patientID, doctorID))
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), first.ID, "")
	require.NoError(t, err)

	cancelled, err := svc.List(context.Background(), &model.AppointmentFilters{Status: model.AppointmentStatusCancelled})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, first.ID, cancelled[0].ID)
}

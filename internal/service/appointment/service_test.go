package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	appointments map[uuid.UUID]*model.Appointment
	failCreate   bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) CreateBatch(_ context.Context, appointments []*model.Appointment) error {
	if f.failCreate {
		return errors.New("tx failed")
	}
	for _, appt := range appointments {
		f.appointments[appt.ID] = appt
	}
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	appt, ok := f.appointments[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	appt.Status = status
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appointments[id]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	delete(f.appointments, id)
	return nil
}

type fakePatientRepo struct {
	repository.PatientRepository
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, ok := f.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return patient, nil
}

func setup(t *testing.T) (*Service, *fakeAppointmentRepo, *model.TokenClaims, *model.Patient) {
	t.Helper()

	clinicID := uuid.New()
	patient := &model.Patient{
		Base:     model.Base{ID: uuid.New()},
		ClinicID: clinicID,
		FullName: "Maria Silva",
	}
	claims := &model.TokenClaims{
		UserID:   uuid.New(),
		ClinicID: clinicID,
		Role:     model.RoleProfessional,
	}

	repo := newFakeAppointmentRepo()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}}
	svc := NewService(repo, patients, tenant.NewGuard(), nil)
	return svc, repo, claims, patient
}

// Monday 2025-06-02 10:00.
var mondayAnchor = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func TestScheduleSingle(t *testing.T) {
	svc, repo, claims, patient := setup(t)

	result, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Nil(t, result.RecurrenceID)
	require.Len(t, repo.appointments, 1)
	for _, appt := range repo.appointments {
		assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
		assert.False(t, appt.IsRecurring)
	}
}

func TestScheduleRecurringFromMondayAnchor(t *testing.T) {
	svc, repo, claims, patient := setup(t)

	result, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
		Recurrence: &model.RecurrenceRequest{
			Weekdays: []string{"monday", "wednesday"},
			Weeks:    2,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Created)
	require.NotNil(t, result.RecurrenceID)
	require.Len(t, repo.appointments, 4)

	var starts []time.Time
	for _, appt := range repo.appointments {
		assert.True(t, appt.IsRecurring)
		require.NotNil(t, appt.RecurrenceID)
		assert.Equal(t, *result.RecurrenceID, *appt.RecurrenceID)
		assert.False(t, appt.StartTime.Before(mondayAnchor))
		assert.Equal(t, 10, appt.StartTime.Hour())
		starts = append(starts, appt.StartTime)
	}
	assert.Contains(t, starts, mondayAnchor)
	assert.Contains(t, starts, mondayAnchor.AddDate(0, 0, 2))
	assert.Contains(t, starts, mondayAnchor.AddDate(0, 0, 7))
	assert.Contains(t, starts, mondayAnchor.AddDate(0, 0, 9))
}

func TestScheduleRecurringSkipsBeforeAnchor(t *testing.T) {
	svc, repo, claims, patient := setup(t)

	// Wednesday anchor with monday in the set: week 0's monday is in the
	// past and must be skipped.
	wednesday := mondayAnchor.AddDate(0, 0, 2)
	result, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: wednesday,
		Location:  "Sala 1",
		Recurrence: &model.RecurrenceRequest{
			Weekdays: []string{"monday", "wednesday"},
			Weeks:    2,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)
	for _, appt := range repo.appointments {
		assert.False(t, appt.StartTime.Before(wednesday))
	}
}

func TestScheduleRecurringAnchorWeekdayNotInSet(t *testing.T) {
	svc, _, claims, patient := setup(t)

	// Monday anchor, tuesdays only: the first occurrence is the next day.
	result, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
		Recurrence: &model.RecurrenceRequest{
			Weekdays: []string{"tuesday"},
			Weeks:    3,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
}

func TestScheduleRecurringValidation(t *testing.T) {
	svc, repo, claims, patient := setup(t)

	cases := []struct {
		name string
		rec  *model.RecurrenceRequest
	}{
		{"empty weekdays", &model.RecurrenceRequest{Weekdays: nil, Weeks: 2}},
		{"zero weeks", &model.RecurrenceRequest{Weekdays: []string{"monday"}, Weeks: 0}},
		{"unknown weekday", &model.RecurrenceRequest{Weekdays: []string{"someday"}, Weeks: 2}},
		{"too many weeks", &model.RecurrenceRequest{Weekdays: []string{"monday"}, Weeks: 53}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
				PatientID:  patient.ID,
				StartTime:  mondayAnchor,
				Location:   "Sala 1",
				Recurrence: tc.rec,
			})
			assert.True(t, apperrors.IsValidation(err))
			assert.Empty(t, repo.appointments)
		})
	}
}

func TestScheduleBatchFailureCreatesNothing(t *testing.T) {
	svc, repo, claims, patient := setup(t)
	repo.failCreate = true

	_, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
		Recurrence: &model.RecurrenceRequest{
			Weekdays: []string{"monday"},
			Weeks:    4,
		},
	})
	require.Error(t, err)
	assert.Empty(t, repo.appointments)
}

func TestScheduleForeignPatientForbidden(t *testing.T) {
	svc, repo, claims, patient := setup(t)
	claims.ClinicID = uuid.New()

	_, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
	})
	assert.True(t, apperrors.IsForbidden(err))
	assert.Empty(t, repo.appointments)
}

func TestActCompleteIsIdempotent(t *testing.T) {
	svc, repo, claims, patient := setup(t)

	_, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
	})
	require.NoError(t, err)

	var id uuid.UUID
	for apptID := range repo.appointments {
		id = apptID
	}

	require.NoError(t, svc.Act(context.Background(), claims, id, model.AppointmentActionComplete))
	assert.Equal(t, model.AppointmentStatusCompleted, repo.appointments[id].Status)

	require.NoError(t, svc.Act(context.Background(), claims, id, model.AppointmentActionComplete))
	assert.Equal(t, model.AppointmentStatusCompleted, repo.appointments[id].Status)
}

func TestActDeleteRemovesRow(t *testing.T) {
	svc, repo, claims, patient := setup(t)

	_, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
	})
	require.NoError(t, err)

	var id uuid.UUID
	for apptID := range repo.appointments {
		id = apptID
	}

	require.NoError(t, svc.Act(context.Background(), claims, id, model.AppointmentActionDelete))
	assert.Empty(t, repo.appointments)

	err = svc.Act(context.Background(), claims, id, model.AppointmentActionDelete)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestActUnknownAction(t *testing.T) {
	svc, repo, claims, patient := setup(t)

	_, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
	})
	require.NoError(t, err)

	var id uuid.UUID
	for apptID := range repo.appointments {
		id = apptID
	}

	err = svc.Act(context.Background(), claims, id, model.AppointmentAction("archive"))
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, model.AppointmentStatusScheduled, repo.appointments[id].Status)
}

func TestActForeignAppointmentForbidden(t *testing.T) {
	svc, repo, claims, patient := setup(t)

	_, err := svc.Schedule(context.Background(), claims, &model.ScheduleAppointmentRequest{
		PatientID: patient.ID,
		StartTime: mondayAnchor,
		Location:  "Sala 1",
	})
	require.NoError(t, err)

	var id uuid.UUID
	for apptID := range repo.appointments {
		id = apptID
	}

	intruder := &model.TokenClaims{UserID: uuid.New(), ClinicID: uuid.New()}
	err = svc.Act(context.Background(), intruder, id, model.AppointmentActionCancel)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, model.AppointmentStatusScheduled, repo.appointments[id].Status)
}

func TestStatusColors(t *testing.T) {
	assert.Equal(t, "#198754", statusColor(model.AppointmentStatusCompleted))
	assert.Equal(t, "#0dcaf0", statusColor(model.AppointmentStatusScheduled))
	assert.Equal(t, "#6c757d", statusColor(model.AppointmentStatusCancelled))
}

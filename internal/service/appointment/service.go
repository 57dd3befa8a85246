package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/metrics"
)

const MaxRecurrenceWeeks = 52

// Calendar colors by status.
const (
	colorCompleted = "#198754"
	colorScheduled = "#0dcaf0"
	colorCancelled = "#6c757d"
)

var weekdayIndex = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	guard       *tenant.Guard
	metrics     *metrics.Metrics
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository, guard *tenant.Guard, m *metrics.Metrics) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, guard: guard, metrics: m}
}

// Schedule creates one appointment, or a whole weekly series when a
// recurrence is requested. The series is persisted atomically and every row
// shares one recurrence id.
func (s *Service) Schedule(ctx context.Context, claims *model.TokenClaims, req *model.ScheduleAppointmentRequest) (*model.ScheduleResult, error) {
	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(patient.ClinicID, claims.ClinicID); err != nil {
		return nil, err
	}

	if req.Recurrence == nil {
		appt := s.newAppointment(claims, req, req.StartTime, false, nil)
		if err := s.repo.CreateBatch(ctx, []*model.Appointment{appt}); err != nil {
			return nil, fmt.Errorf("failed to create appointment: %w", err)
		}
		if s.metrics != nil {
			s.metrics.AppointmentsCreated.WithLabelValues("false").Inc()
		}
		return &model.ScheduleResult{Created: 1}, nil
	}

	occurrences, err := expandRecurrence(req.StartTime, req.Recurrence)
	if err != nil {
		return nil, err
	}

	recurrenceID := uuid.New()
	appointments := make([]*model.Appointment, 0, len(occurrences))
	for _, start := range occurrences {
		appointments = append(appointments, s.newAppointment(claims, req, start, true, &recurrenceID))
	}

	if err := s.repo.CreateBatch(ctx, appointments); err != nil {
		return nil, fmt.Errorf("failed to create appointment series: %w", err)
	}
	if s.metrics != nil {
		s.metrics.AppointmentsCreated.WithLabelValues("true").Add(float64(len(appointments)))
	}

	return &model.ScheduleResult{Created: len(appointments), RecurrenceID: &recurrenceID}, nil
}

func (s *Service) newAppointment(claims *model.TokenClaims, req *model.ScheduleAppointmentRequest, start time.Time, recurring bool, recurrenceID *uuid.UUID) *model.Appointment {
	return &model.Appointment{
		Base:         model.Base{ID: uuid.New()},
		ClinicID:     claims.ClinicID,
		PatientID:    req.PatientID,
		UserID:       claims.UserID,
		StartTime:    start,
		Location:     req.Location,
		Status:       model.AppointmentStatusScheduled,
		Notes:        req.Notes,
		IsRecurring:  recurring,
		RecurrenceID: recurrenceID,
	}
}

// expandRecurrence generates the occurrence start times for a weekly series.
// Weeks run Monday to Sunday: week 0 is the anchor's week, and each selected
// weekday lands on the same clock time as the anchor. Candidates that fall
// before the anchor's own date are skipped, so an anchor mid-week does not
// produce occurrences in its past.
func expandRecurrence(anchor time.Time, rec *model.RecurrenceRequest) ([]time.Time, error) {
	if rec.Weeks < 1 {
		return nil, apperrors.Validation("recurrence.weeks", "must be at least 1")
	}
	if rec.Weeks > MaxRecurrenceWeeks {
		return nil, apperrors.Validation("recurrence.weeks", fmt.Sprintf("must be at most %d", MaxRecurrenceWeeks))
	}
	if len(rec.Weekdays) == 0 {
		return nil, apperrors.Validation("recurrence.weekdays", "must not be empty")
	}

	indices := make(map[int]struct{}, len(rec.Weekdays))
	for _, day := range rec.Weekdays {
		idx, ok := weekdayIndex[strings.ToLower(day)]
		if !ok {
			return nil, apperrors.Validation("recurrence.weekdays", fmt.Sprintf("unknown weekday %q", day))
		}
		indices[idx] = struct{}{}
	}

	// Monday-based index of the anchor's weekday.
	anchorIdx := (int(anchor.Weekday()) + 6) % 7
	weekStart := anchor.AddDate(0, 0, -anchorIdx)
	anchorDate := truncateToDay(anchor)

	var occurrences []time.Time
	for week := 0; week < rec.Weeks; week++ {
		for idx := 0; idx < 7; idx++ {
			if _, ok := indices[idx]; !ok {
				continue
			}
			candidate := weekStart.AddDate(0, 0, week*7+idx)
			if truncateToDay(candidate).Before(anchorDate) {
				continue
			}
			occurrences = append(occurrences, candidate)
		}
	}
	return occurrences, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(appt.ClinicID, claims.ClinicID); err != nil {
		return nil, err
	}
	return appt, nil
}

// Act applies a state machine action. Complete and cancel are idempotent
// field assignments; delete removes the row.
func (s *Service) Act(ctx context.Context, claims *model.TokenClaims, id uuid.UUID, action model.AppointmentAction) error {
	if _, err := s.Get(ctx, claims, id); err != nil {
		return err
	}

	switch action {
	case model.AppointmentActionComplete:
		if err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusCompleted); err != nil {
			return err
		}
	case model.AppointmentActionCancel:
		if err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusCancelled); err != nil {
			return err
		}
	case model.AppointmentActionDelete:
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
	default:
		return apperrors.Validation("action", fmt.Sprintf("unknown action %q", action))
	}

	if s.metrics != nil {
		s.metrics.AppointmentActions.WithLabelValues(string(action)).Inc()
	}
	return nil
}

func (s *Service) Update(ctx context.Context, claims *model.TokenClaims, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		appt.StartTime = *req.StartTime
	}
	if req.Location != nil {
		appt.Location = *req.Location
	}
	if req.Notes != nil {
		appt.Notes = req.Notes
	}
	if req.SessionPrice != nil {
		appt.SessionPrice = req.SessionPrice
	}
	if req.AmountPaid != nil {
		appt.AmountPaid = req.AmountPaid
	}
	if req.PaymentNotes != nil {
		appt.PaymentNotes = req.PaymentNotes
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, claims *model.TokenClaims, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, claims.ClinicID, filters)
}

// Calendar returns the clinic's appointments as agenda events, colored by
// status.
func (s *Service) Calendar(ctx context.Context, claims *model.TokenClaims, filters *model.AppointmentFilters) ([]*model.CalendarEvent, error) {
	appointments, err := s.repo.List(ctx, claims.ClinicID, filters)
	if err != nil {
		return nil, err
	}

	events := make([]*model.CalendarEvent, 0, len(appointments))
	for _, appt := range appointments {
		color := statusColor(appt.Status)
		events = append(events, &model.CalendarEvent{
			ID:          appt.ID,
			Title:       appt.PatientName,
			Start:       appt.StartTime.Format(time.RFC3339),
			Color:       color,
			BorderColor: color,
			ExtendedProps: model.CalendarEventProps{
				Location:     appt.Location,
				Status:       string(appt.Status),
				Notes:        appt.Notes,
				SessionPrice: appt.SessionPrice,
				AmountPaid:   appt.AmountPaid,
				PaymentNotes: appt.PaymentNotes,
				PatientID:    appt.PatientID,
				RecurrenceID: appt.RecurrenceID,
			},
		})
	}
	return events, nil
}

func statusColor(status model.AppointmentStatus) string {
	switch status {
	case model.AppointmentStatusCompleted:
		return colorCompleted
	case model.AppointmentStatusCancelled:
		return colorCancelled
	default:
		return colorScheduled
	}
}

package report

import (
	"context"
	"time"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type Service struct {
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository

	// now is swappable for tests.
	now func() time.Time
}

func NewService(appointmentRepo repository.AppointmentRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		now:             time.Now,
	}
}

// Dashboard is the landing page payload: what is coming up, who joined
// recently, and whose birthday falls this month.
type Dashboard struct {
	UpcomingAppointments []*model.Appointment `json:"upcoming_appointments"`
	RecentPatients       []*model.Patient     `json:"recent_patients"`
	Birthdays            []*model.Patient     `json:"birthdays"`
}

// Financial sums billed and collected amounts over an inclusive day range.
// Missing dates default to the current calendar month. Null prices and
// payments contribute zero.
func (s *Service) Financial(ctx context.Context, claims *model.TokenClaims, startDate, endDate string) (*model.FinancialSummary, error) {
	start, end, err := s.resolveRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	filters := &model.AppointmentFilters{
		StartDate: start,
		EndDate:   endOfDay(end).Add(time.Nanosecond),
	}
	appointments, err := s.appointmentRepo.List(ctx, claims.ClinicID, filters)
	if err != nil {
		return nil, err
	}

	summary := &model.FinancialSummary{
		StartDate:    start.Format(dateLayout),
		EndDate:      end.Format(dateLayout),
		Appointments: appointments,
	}
	for _, appt := range appointments {
		if appt.SessionPrice != nil {
			summary.TotalBilled += *appt.SessionPrice
		}
		if appt.AmountPaid != nil {
			summary.TotalCollected += *appt.AmountPaid
		}
	}
	return summary, nil
}

// StatusSummary counts the current month's appointments by status.
func (s *Service) StatusSummary(ctx context.Context, claims *model.TokenClaims) (*model.StatusSummary, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	appointments, err := s.appointmentRepo.List(ctx, claims.ClinicID, &model.AppointmentFilters{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, err
	}

	var summary model.StatusSummary
	for _, appt := range appointments {
		switch appt.Status {
		case model.AppointmentStatusScheduled:
			summary.Scheduled++
		case model.AppointmentStatusCompleted:
			summary.Completed++
		case model.AppointmentStatusCancelled:
			summary.Cancelled++
		}
	}
	return &summary, nil
}

func (s *Service) Dashboard(ctx context.Context, claims *model.TokenClaims) (*Dashboard, error) {
	now := s.now()

	upcoming, err := s.appointmentRepo.ListUpcoming(ctx, claims.ClinicID, now, 5)
	if err != nil {
		return nil, err
	}
	recent, err := s.patientRepo.ListRecent(ctx, claims.ClinicID, 5)
	if err != nil {
		return nil, err
	}
	birthdays, err := s.patientRepo.ListBirthdays(ctx, claims.ClinicID, now.Month())
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		UpcomingAppointments: upcoming,
		RecentPatients:       recent,
		Birthdays:            birthdays,
	}, nil
}

func (s *Service) resolveRange(startDate, endDate string) (time.Time, time.Time, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)

	if startDate != "" {
		parsed, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation("start_date", "must be YYYY-MM-DD")
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation("end_date", "must be YYYY-MM-DD")
		}
		end = parsed
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.Validation("end_date", "must not precede start_date")
	}
	return start, end, nil
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), day.Location())
}

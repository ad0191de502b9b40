package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docbook/docbook/internal/domain/doctor"
	"github.com/docbook/docbook/internal/platform/validation"
)

// Doctors resolves doctors by id regardless of their active flag.
// *doctor.Service satisfies it.
type Doctors interface {
	Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

// Booking pairs an appointment with the doctor it references.
type Booking struct {
	Appointment *Appointment
	Doctor      *doctor.Doctor
}

func (b Booking) View() Public {
	return b.Appointment.PublicView(b.Doctor)
}

type Service struct {
	repo    Repository
	doctors Doctors
	now     func() time.Time
	loc     *time.Location
	logger  zerolog.Logger
}

// NewService wires the booking engine. now defaults to time.Now and loc, the
// zone that decides what "today" is, to UTC.
func NewService(repo Repository, doctors Doctors, now func() time.Time, loc *time.Location, logger zerolog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, doctors: doctors, now: now, loc: loc, logger: logger}
}

// today returns the current business date as YYYY-MM-DD.
func (s *Service) today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

// AvailableSlots returns the grid labels not held by a pending or confirmed
// appointment of the doctor on date, in grid order.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	day, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	booked, err := s.repo.BookedTimes(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}
	slots := Grid()
	free := slots[:0]
	for _, slot := range slots {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

// Book validates req and inserts a pending appointment. Concurrent bookings of
// the same slot are settled by the store: exactly one succeeds and the rest
// get ErrSlotConflict.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Booking, error) {
	doctorID, err := uuid.Parse(strings.TrimSpace(req.DoctorID))
	if err != nil {
		return nil, validation.NewError("doctor", "uuid", validation.ErrInvalid, "must be a valid UUID")
	}
	d, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	a, err := ValidateBooking(req, d, s.now().In(s.loc))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			s.logger.Info().
				Str("doctor_id", doctorID.String()).
				Str("date", a.Date).
				Str("time", a.Time).
				Msg("slot conflict")
		}
		return nil, err
	}
	s.logger.Info().Str("appointment_id", a.ID.String()).Str("doctor_id", doctorID.String()).Msg("appointment booked")
	return &Booking{Appointment: a, Doctor: d}, nil
}

// ListByContact returns a patient's appointments, newest first. An empty or
// separator-only contact matches nothing.
func (s *Service) ListByContact(ctx context.Context, contact string) ([]Booking, error) {
	cleaned := CleanContact(strings.TrimSpace(contact))
	if cleaned == "" {
		return []Booking{}, nil
	}
	appts, err := s.repo.ListByContact(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	docs := make(map[uuid.UUID]*doctor.Doctor)
	out := make([]Booking, 0, len(appts))
	for _, a := range appts {
		d, ok := docs[a.DoctorID]
		if !ok {
			if d, err = s.doctors.Get(ctx, a.DoctorID); err != nil {
				return nil, err
			}
			docs[a.DoctorID] = d
		}
		out = append(out, Booking{Appointment: a, Doctor: d})
	}
	return out, nil
}

// -- Admin --

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Appointment, int, error) {
	if filter.Date != "" {
		day, err := ParseDate("date", filter.Date)
		if err != nil {
			return nil, 0, err
		}
		filter.Date = day
	}
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, 0, validation.NewError("status", "oneof", validation.ErrInvalid, "must be one of: pending confirmed cancelled")
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// Update applies a staff edit under a row lock. A cancelled appointment cannot
// move to another status.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in AdminUpdate) (*Appointment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.PatientContact != nil {
		if err := validateContact("patient_contact", *in.PatientContact); err != nil {
			return nil, err
		}
	}

	var (
		from string
		held bool
	)
	a, err := s.repo.Transition(ctx, id, func(a *Appointment) error {
		from, held = a.Status, a.Holds()
		if in.Status != nil {
			if err := checkTransition(a.Status, *in.Status); err != nil {
				return err
			}
			a.Status = *in.Status
		}
		if in.PatientName != nil {
			a.PatientName = strings.TrimSpace(*in.PatientName)
		}
		if in.PatientContact != nil {
			a.PatientContact = strings.TrimSpace(*in.PatientContact)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTerminalState) {
			s.logger.Warn().Str("appointment_id", id.String()).Msg("rejected change to cancelled appointment")
		}
		return nil, err
	}
	if from != a.Status {
		s.logger.Info().
			Str("appointment_id", id.String()).
			Str("from", from).
			Str("to", a.Status).
			Msg("appointment status changed")
	}
	if held && !a.Holds() {
		s.logger.Info().
			Str("doctor_id", a.DoctorID.String()).
			Str("date", a.Date).
			Str("time", a.Time).
			Msg("slot released")
	}
	return a, nil
}

// SetStatus moves the appointment to status.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	return s.Update(ctx, id, AdminUpdate{Status: &status})
}

// Stats reports the dashboard counters for the current business date.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx, s.today())
}

package appointment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docbook/docbook/internal/domain/doctor"
	"github.com/docbook/docbook/internal/platform/validation"
)

// Booking rule sentinels. Each is returned wrapped in a *validation.Error
// that names the offending field.
var (
	ErrInvalidDate       = errors.New("invalid appointment date")
	ErrPastDate          = errors.New("appointment date is in the past")
	ErrInvalidTime       = errors.New("invalid appointment time")
	ErrInvalidContact    = errors.New("invalid patient contact")
	ErrDoctorUnavailable = errors.New("doctor is not available")
	ErrUnsupportedMode   = errors.New("consultation type not offered")
	ErrTerminalState     = errors.New("appointment is cancelled")
)

// ErrSlotConflict means another live appointment already holds the slot.
var ErrSlotConflict = errors.New("time slot already booked")

// ErrNotFound is returned when no appointment matches the lookup.
var ErrNotFound = errors.New("appointment not found")

// minContactDigits is the shortest accepted contact after CleanContact.
const minContactDigits = 10

// CleanContact strips the separators patients commonly type into phone
// numbers: spaces, dashes and parentheses.
func CleanContact(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, s)
}

func validateContact(field, contact string) error {
	if len(CleanContact(contact)) < minContactDigits {
		return validation.NewError(field, "invalid_contact", ErrInvalidContact, "Please provide a valid contact number")
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date and returns it normalised.
func ParseDate(field, s string) (string, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", validation.NewError(field, "invalid_date", ErrInvalidDate, "Invalid date format. Use YYYY-MM-DD")
	}
	return d.Format(DateLayout), nil
}

// ValidateBooking applies the booking rules in order and returns the pending
// appointment to insert. now must already be in the business timezone; only
// its calendar date is used.
func ValidateBooking(req BookingRequest, d *doctor.Doctor, now time.Time) (*Appointment, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	date, err := ParseDate("appointment_date", req.Date)
	if err != nil {
		return nil, err
	}
	// YYYY-MM-DD compares chronologically as a string.
	if date < now.Format(DateLayout) {
		return nil, validation.NewError("appointment_date", "past_date", ErrPastDate, "Cannot book appointments in the past")
	}

	slot, err := parseSlot(req.Time)
	if err != nil {
		return nil, err
	}

	if err := validateContact("patient_contact", req.PatientContact); err != nil {
		return nil, err
	}

	if !d.Bookable() {
		return nil, validation.NewError("doctor", "doctor_unavailable", ErrDoctorUnavailable, "This doctor is currently not available for appointments")
	}
	if !d.Supports(req.ConsultationType) {
		return nil, validation.NewError("consultation_type", "unsupported_mode", ErrUnsupportedMode,
			fmt.Sprintf("Dr. %s does not offer %s consultations", d.Name, req.ConsultationType))
	}

	return &Appointment{
		DoctorID:         d.ID,
		PatientName:      strings.TrimSpace(req.PatientName),
		PatientContact:   strings.TrimSpace(req.PatientContact),
		ConsultationType: req.ConsultationType,
		Date:             date,
		Time:             slot,
		Status:           StatusPending,
	}, nil
}

// checkTransition enforces that cancelled is terminal. Re-cancelling is allowed
// and changes nothing.
func checkTransition(from, to string) error {
	if from == StatusCancelled && to != StatusCancelled {
		return validation.NewError("status", "terminal_state", ErrTerminalState, "Cannot change status of a cancelled appointment")
	}
	return nil
}

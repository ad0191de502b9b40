package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/docbook/docbook/internal/domain/doctor"
)

// Appointment lifecycle states. Cancelled is terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// DateLayout is the wire and storage format of appointment dates.
const DateLayout = "2006-01-02"

// Appointment maps to the appointment table. Date is YYYY-MM-DD and Time is a
// grid label (HH:MM); both are interpreted in the business timezone.
type Appointment struct {
	ID               uuid.UUID `json:"id"`
	DoctorID         uuid.UUID `json:"doctor_id"`
	PatientName      string    `json:"patient_name"`
	PatientContact   string    `json:"patient_contact"`
	ConsultationType string    `json:"consultation_type"`
	Date             string    `json:"appointment_date"`
	Time             string    `json:"appointment_time"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Populated by joined reads.
	DoctorName           string `json:"-"`
	DoctorSpecialization string `json:"-"`
}

// Holds reports whether the appointment occupies its slot.
func (a *Appointment) Holds() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Public is the patient-facing projection with the doctor nested.
type Public struct {
	ID               uuid.UUID      `json:"id"`
	Doctor           doctor.Summary `json:"doctor"`
	PatientName      string         `json:"patient_name"`
	PatientContact   string         `json:"patient_contact"`
	ConsultationType string         `json:"consultation_type"`
	Date             string         `json:"appointment_date"`
	Time             string         `json:"appointment_time"`
	Status           string         `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (a *Appointment) PublicView(d *doctor.Doctor) Public {
	return Public{
		ID:               a.ID,
		Doctor:           d.PublicView(),
		PatientName:      a.PatientName,
		PatientContact:   a.PatientContact,
		ConsultationType: a.ConsultationType,
		Date:             a.Date,
		Time:             a.Time,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt,
	}
}

// Admin is the staff projection with the doctor flattened.
type Admin struct {
	ID                   uuid.UUID `json:"id"`
	DoctorID             uuid.UUID `json:"doctor_id"`
	PatientName          string    `json:"patient_name"`
	PatientContact       string    `json:"patient_contact"`
	ConsultationType     string    `json:"consultation_type"`
	Date                 string    `json:"appointment_date"`
	Time                 string    `json:"appointment_time"`
	Status               string    `json:"status"`
	DoctorName           string    `json:"doctor_name"`
	DoctorSpecialization string    `json:"doctor_specialization"`
	CreatedAt            time.Time `json:"created_at"`
}

func (a *Appointment) AdminView() Admin {
	return Admin{
		ID:                   a.ID,
		DoctorID:             a.DoctorID,
		PatientName:          a.PatientName,
		PatientContact:       a.PatientContact,
		ConsultationType:     a.ConsultationType,
		Date:                 a.Date,
		Time:                 a.Time,
		Status:               a.Status,
		DoctorName:           a.DoctorName,
		DoctorSpecialization: a.DoctorSpecialization,
		CreatedAt:            a.CreatedAt,
	}
}

// BookingRequest is the public booking payload. Shape is checked with struct
// tags before the business rules run.
type BookingRequest struct {
	DoctorID         string `json:"doctor" validate:"required,uuid"`
	PatientName      string `json:"patient_name" validate:"notblank,max=255"`
	PatientContact   string `json:"patient_contact" validate:"notblank,max=20"`
	ConsultationType string `json:"consultation_type" validate:"required,oneof=online in-person"`
	Date             string `json:"appointment_date" validate:"required"`
	Time             string `json:"appointment_time" validate:"required"`
}

// AdminUpdate is a partial staff update; nil fields are left unchanged.
type AdminUpdate struct {
	Status         *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	PatientName    *string `json:"patient_name" validate:"omitempty,notblank,max=255"`
	PatientContact *string `json:"patient_contact" validate:"omitempty,notblank,max=20"`
}

// ListFilter narrows the admin appointment listing. Zero values match all.
type ListFilter struct {
	DoctorID *uuid.UUID
	Date     string
	Status   string
}

// Stats is the staff dashboard snapshot.
type Stats struct {
	TotalAppointments    int `json:"total_appointments"`
	Pending              int `json:"pending"`
	Confirmed            int `json:"confirmed"`
	Cancelled            int `json:"cancelled"`
	TodayAppointments    int `json:"today_appointments"`
	UpcomingAppointments int `json:"upcoming_appointments"`
	TotalDoctors         int `json:"total_doctors"`
	ActiveDoctors        int `json:"active_doctors"`
}

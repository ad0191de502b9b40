package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Consultation modes a doctor can offer.
const (
	ModeOnline   = "online"
	ModeInPerson = "in-person"
)

// ValidMode reports whether m is a known consultation mode.
func ValidMode(m string) bool {
	return m == ModeOnline || m == ModeInPerson
}

// Doctor maps to the doctor table. Doctors are never deleted; IsActive=false
// takes them out of every public query.
type Doctor struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Specialization    string    `json:"specialization"`
	Bio               string    `json:"bio"`
	YearsOfExperience int       `json:"years_of_experience"`
	ConsultationModes []string  `json:"consultation_modes"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Supports reports whether the doctor offers the given consultation mode.
func (d *Doctor) Supports(mode string) bool {
	for _, m := range d.ConsultationModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Bookable reports whether new appointments may target this doctor.
func (d *Doctor) Bookable() bool {
	return d.IsActive && len(d.ConsultationModes) > 0
}

// Summary is the public list projection of a doctor.
type Summary struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Specialization    string    `json:"specialization"`
	YearsOfExperience int       `json:"years_of_experience"`
	ConsultationModes []string  `json:"consultation_modes"`
	IsAvailable       bool      `json:"is_available"`
}

// Detail is the public single-doctor projection; it adds the bio.
type Detail struct {
	Summary
	Bio string `json:"bio"`
}

func (d *Doctor) PublicView() Summary {
	return Summary{
		ID:                d.ID,
		Name:              d.Name,
		Specialization:    d.Specialization,
		YearsOfExperience: d.YearsOfExperience,
		ConsultationModes: append([]string(nil), d.ConsultationModes...),
		IsAvailable:       d.IsActive,
	}
}

func (d *Doctor) DetailView() Detail {
	return Detail{Summary: d.PublicView(), Bio: d.Bio}
}

// ListFilter narrows doctor listings. A nil Active matches both states.
type ListFilter struct {
	Active         *bool
	Specialization string // case-insensitive substring
	Search         string // case-insensitive substring of name or specialization
}

// CreateInput is the admin payload for a new doctor.
type CreateInput struct {
	Name              string   `json:"name" validate:"notblank,max=255"`
	Specialization    string   `json:"specialization" validate:"notblank,max=100"`
	Bio               string   `json:"bio"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0"`
	ConsultationModes []string `json:"consultation_modes" validate:"min=1,unique,dive,oneof=online in-person"`
	IsActive          *bool    `json:"is_active"`
}

// UpdateInput is a partial admin update; nil fields are left unchanged and an
// empty bio is ignored.
type UpdateInput struct {
	Name              *string   `json:"name" validate:"omitempty,notblank,max=255"`
	Specialization    *string   `json:"specialization" validate:"omitempty,notblank,max=100"`
	Bio               *string   `json:"bio"`
	YearsOfExperience *int      `json:"years_of_experience" validate:"omitempty,gte=0"`
	ConsultationModes *[]string `json:"consultation_modes" validate:"omitempty,min=1,unique,dive,oneof=online in-person"`
	IsActive          *bool     `json:"is_active"`
}

// Apply copies the set fields of in onto d.
func (in UpdateInput) Apply(d *Doctor) {
	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.Specialization != nil {
		d.Specialization = *in.Specialization
	}
	if in.Bio != nil && *in.Bio != "" {
		d.Bio = *in.Bio
	}
	if in.YearsOfExperience != nil {
		d.YearsOfExperience = *in.YearsOfExperience
	}
	if in.ConsultationModes != nil {
		d.ConsultationModes = append([]string(nil), (*in.ConsultationModes)...)
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
}

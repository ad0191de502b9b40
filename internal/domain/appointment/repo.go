package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts a pending appointment. It returns ErrSlotConflict when a
	// live appointment already holds (doctor, date, time).
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// BookedTimes returns the slot labels held by pending or confirmed
	// appointments of the doctor on date.
	BookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
	// ListByContact matches the cleaned contact as a substring of the cleaned
	// stored contact, newest date and time first.
	ListByContact(ctx context.Context, contact string) ([]*Appointment, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Appointment, int, error)
	// Transition loads the appointment under a row lock, passes it to fn and
	// persists the result if fn returns nil.
	Transition(ctx context.Context, id uuid.UUID, fn func(a *Appointment) error) (*Appointment, error)
	// Stats counts appointments and doctors in a single snapshot.
	Stats(ctx context.Context, today string) (*Stats, error)
}

package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no doctor matches the lookup, including lookups
// restricted to active doctors that hit an inactive one.
var ErrNotFound = errors.New("doctor not found")

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Doctor, int, error)
	// Specializations returns the distinct specializations of active doctors,
	// sorted ascending.
	Specializations(ctx context.Context) ([]string, error)
}

package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docbook/docbook/internal/platform/db"
)

type staffStorePG struct{ pool *pgxpool.Pool }

func NewStaffStorePG(pool *pgxpool.Pool) StaffStore { return &staffStorePG{pool: pool} }

const staffCols = `id, username, password_hash, is_active, created_at`

func scanStaff(row pgx.Row) (*StaffUser, error) {
	var u StaffUser
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	return &u, err
}

func (s *staffStorePG) Create(ctx context.Context, u *StaffUser) error {
	u.ID = uuid.New()
	err := s.pool.QueryRow(ctx, `
		INSERT INTO staff_user (id, username, password_hash, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		u.ID, u.Username, u.PasswordHash, u.IsActive,
	).Scan(&u.CreatedAt)
	if db.IsUniqueViolation(err, "staff_user_username_key") {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("insert staff user: %w", err)
	}
	return nil
}

func (s *staffStorePG) GetByID(ctx context.Context, id uuid.UUID) (*StaffUser, error) {
	u, err := scanStaff(s.pool.QueryRow(ctx, `SELECT `+staffCols+` FROM staff_user WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff user: %w", err)
	}
	return u, nil
}

func (s *staffStorePG) GetByUsername(ctx context.Context, username string) (*StaffUser, error) {
	u, err := scanStaff(s.pool.QueryRow(ctx, `SELECT `+staffCols+` FROM staff_user WHERE username = $1`, username))
	if db.IsNoRows(err) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff user: %w", err)
	}
	return u, nil
}

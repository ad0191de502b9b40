package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docbook/docbook/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const doctorCols = `id, name, specialization, bio, years_of_experience, consultation_modes,
	is_active, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.Bio, &d.YearsOfExperience,
		&d.ConsultationModes, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO doctor (id, name, specialization, bio, years_of_experience, consultation_modes, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Specialization, d.Bio, d.YearsOfExperience, d.ConsultationModes, d.IsActive,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get doctor %s: %w", id, err)
	}
	return d, nil
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE doctor SET name=$2, specialization=$3, bio=$4, years_of_experience=$5,
			consultation_modes=$6, is_active=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		d.ID, d.Name, d.Specialization, d.Bio, d.YearsOfExperience, d.ConsultationModes, d.IsActive,
	).Scan(&d.UpdatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update doctor %s: %w", d.ID, err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Doctor, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.Active != nil {
		where += fmt.Sprintf(` AND is_active = $%d`, idx)
		args = append(args, *filter.Active)
		idx++
	}
	if filter.Specialization != "" {
		where += fmt.Sprintf(` AND specialization ILIKE $%d`, idx)
		args = append(args, db.LikePattern(filter.Specialization))
		idx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(` AND (name ILIKE $%d OR specialization ILIKE $%d)`, idx, idx)
		args = append(args, db.LikePattern(filter.Search))
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	query := `SELECT ` + doctorCols + ` FROM doctor` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()
	items := make([]*Doctor, 0)
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan doctor: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate doctors: %w", err)
	}
	return items, total, nil
}

func (r *repoPG) Specializations(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT specialization FROM doctor
		WHERE is_active = TRUE
		ORDER BY specialization`)
	if err != nil {
		return nil, fmt.Errorf("list specializations: %w", err)
	}
	specs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan specializations: %w", err)
	}
	return specs, nil
}

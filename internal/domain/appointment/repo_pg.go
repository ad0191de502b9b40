package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docbook/docbook/internal/domain/doctor"
	"github.com/docbook/docbook/internal/platform/db"
)

// slotIndex is the partial unique index that keeps one live appointment per
// (doctor, date, time).
const slotIndex = "appointment_slot_key"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

// Dates and times travel as text so the wire format never depends on the
// session timezone.
const apptCols = `a.id, a.doctor_id, a.patient_name, a.patient_contact, a.consultation_type,
	to_char(a.appointment_date, 'YYYY-MM-DD'), to_char(a.appointment_time, 'HH24:MI'),
	a.status, a.created_at, a.updated_at, d.name, d.specialization`

const apptFrom = ` FROM appointment a JOIN doctor d ON d.id = a.doctor_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientName, &a.PatientContact, &a.ConsultationType,
		&a.Date, &a.Time, &a.Status, &a.CreatedAt, &a.UpdatedAt, &a.DoctorName, &a.DoctorSpecialization)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusPending
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_name, patient_contact, consultation_type,
			appointment_date, appointment_time, status)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7::time, $8)
		RETURNING created_at, updated_at`,
		a.ID, a.DoctorID, a.PatientName, a.PatientContact, a.ConsultationType,
		a.Date, a.Time, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	switch {
	case db.IsUniqueViolation(err, slotIndex):
		return ErrSlotConflict
	case db.IsForeignKeyViolation(err):
		return doctor.ErrNotFound
	case err != nil:
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptCols+apptFrom+` WHERE a.id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment %s: %w", id, err)
	}
	return a, nil
}

func (r *repoPG) BookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(appointment_time, 'HH24:MI') FROM appointment
		WHERE doctor_id = $1 AND appointment_date = $2::date
		  AND status IN ('pending', 'confirmed')`,
		doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("query booked times: %w", err)
	}
	times, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan booked times: %w", err)
	}
	return times, nil
}

func (r *repoPG) ListByContact(ctx context.Context, contact string) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+apptFrom+`
		WHERE regexp_replace(a.patient_contact, '[ ()-]', '', 'g') ILIKE $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC`,
		db.LikePattern(contact))
	if err != nil {
		return nil, fmt.Errorf("list appointments by contact: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.DoctorID != nil {
		where += fmt.Sprintf(` AND a.doctor_id = $%d`, idx)
		args = append(args, *filter.DoctorID)
		idx++
	}
	if filter.Date != "" {
		where += fmt.Sprintf(` AND a.appointment_date = $%d::date`, idx)
		args = append(args, filter.Date)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+apptFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	query := `SELECT ` + apptCols + apptFrom + where +
		fmt.Sprintf(` ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func collect(rows pgx.Rows) ([]*Appointment, error) {
	items := make([]*Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return items, nil
}

func (r *repoPG) Transition(ctx context.Context, id uuid.UUID, fn func(a *Appointment) error) (*Appointment, error) {
	var out *Appointment
	err := db.WithTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		a, err := scanAppointment(tx.QueryRow(ctx,
			`SELECT `+apptCols+apptFrom+` WHERE a.id = $1 FOR UPDATE OF a`, id))
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock appointment %s: %w", id, err)
		}

		if err := fn(a); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			UPDATE appointment SET status = $2, patient_name = $3, patient_contact = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			a.ID, a.Status, a.PatientName, a.PatientContact,
		).Scan(&a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update appointment %s: %w", id, err)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repoPG) Stats(ctx context.Context, today string) (*Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		WITH a AS (
			SELECT COUNT(*) AS total,
				COUNT(*) FILTER (WHERE status = 'pending') AS pending,
				COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
				COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
				COUNT(*) FILTER (WHERE appointment_date = $1::date) AS today,
				COUNT(*) FILTER (WHERE appointment_date >= $1::date
					AND status IN ('pending', 'confirmed')) AS upcoming
			FROM appointment
		), d AS (
			SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_active) AS active
			FROM doctor
		)
		SELECT a.total, a.pending, a.confirmed, a.cancelled, a.today, a.upcoming, d.total, d.active
		FROM a, d`, today,
	).Scan(&s.TotalAppointments, &s.Pending, &s.Confirmed, &s.Cancelled,
		&s.TodayAppointments, &s.UpcomingAppointments, &s.TotalDoctors, &s.ActiveDoctors)
	if err != nil {
		return nil, fmt.Errorf("appointment stats: %w", err)
	}
	return &s, nil
}

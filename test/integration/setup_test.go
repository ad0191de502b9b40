package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/docbook/docbook/internal/domain/appointment"
	"github.com/docbook/docbook/internal/domain/doctor"
	"github.com/docbook/docbook/internal/platform/db"
)

// testDB is the shared database, migrated once in TestMain.
type testDB struct {
	Pool *pgxpool.Pool
}

// globalDB is nil when no Postgres could be reached; every test then skips.
var (
	globalDB    *testDB
	setupReason string
)

// TestMain uses TEST_DATABASE_URL when set and otherwise starts a throwaway
// container.
func TestMain(m *testing.M) {
	ctx := context.Background()

	tdb, cleanup, err := setupDatabase(ctx)
	if err != nil {
		setupReason = err.Error()
		fmt.Fprintf(os.Stderr, "integration database unavailable: %v\n", err)
		os.Exit(m.Run())
	}

	globalDB = tdb
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupDatabase(ctx context.Context) (*testDB, func(), error) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	stop := func() {}
	if connStr == "" {
		var err error
		connStr, stop, err = startPostgresContainer(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		stop()
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		stop()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.NewMigrator(pool, findMigrationsDir()).Up(ctx); err != nil {
		pool.Close()
		stop()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return &testDB{Pool: pool}, func() {
		pool.Close()
		stop()
	}, nil
}

// findMigrationsDir locates migrations/ relative to this file.
func findMigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// freshDB skips without a database and otherwise empties every table.
func freshDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if globalDB == nil {
		t.Skipf("no integration database: %s", setupReason)
	}
	_, err := globalDB.Pool.Exec(context.Background(), `TRUNCATE appointment, doctor, staff_user CASCADE`)
	if err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return globalDB.Pool
}

func createTestDoctor(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string, modes ...string) *doctor.Doctor {
	t.Helper()
	if len(modes) == 0 {
		modes = []string{doctor.ModeOnline, doctor.ModeInPerson}
	}
	d := &doctor.Doctor{
		Name:              name,
		Specialization:    "Cardiology",
		YearsOfExperience: 8,
		ConsultationModes: modes,
		IsActive:          true,
	}
	if err := doctor.NewRepoPG(pool).Create(ctx, d); err != nil {
		t.Fatalf("create doctor %s: %v", name, err)
	}
	return d
}

func newAppointment(doctorID uuid.UUID, date, slot string) *appointment.Appointment {
	return &appointment.Appointment{
		DoctorID:         doctorID,
		PatientName:      "Ann Lee",
		PatientContact:   "(555) 123-4567",
		ConsultationType: doctor.ModeOnline,
		Date:             date,
		Time:             slot,
		Status:           appointment.StatusPending,
	}
}

// newBookingService wires the real repositories behind the booking service
// with a clock fixed at 2030-01-10 10:00 UTC.
func newBookingService(pool *pgxpool.Pool) *appointment.Service {
	doctors := doctor.NewService(doctor.NewRepoPG(pool), nil, zerolog.Nop())
	now := func() time.Time { return time.Date(2030, 1, 10, 10, 0, 0, 0, time.UTC) }
	return appointment.NewService(appointment.NewRepoPG(pool), doctors, now, time.UTC, zerolog.Nop())
}

package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	slotErr := &pgconn.PgError{Code: "23505", ConstraintName: "appointment_slot_key"}
	wrapped := fmt.Errorf("insert appointment: %w", slotErr)

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"any constraint", slotErr, "", true},
		{"matching constraint", slotErr, "appointment_slot_key", true},
		{"wrapped error", wrapped, "appointment_slot_key", true},
		{"other constraint", slotErr, "staff_user_username_key", false},
		{"other code", &pgconn.PgError{Code: "23503"}, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected 23503 to be a foreign-key violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("did not expect 23505 to be a foreign-key violation")
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("get doctor: %w", pgx.ErrNoRows)) {
		t.Error("expected wrapped pgx.ErrNoRows to match")
	}
	if IsNoRows(errors.New("other")) {
		t.Error("did not expect arbitrary error to match")
	}
}

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"cardio":  "%cardio%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
		"":        "%%",
	}
	for in, want := range tests {
		if got := LikePattern(in); got != want {
			t.Errorf("LikePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/docbook/docbook/internal/platform/auth"
)

func TestStaffStore_CreateAndLookup(t *testing.T) {
	pool := freshDB(t)
	ctx := context.Background()
	store := auth.NewStaffStorePG(pool)

	hash, err := auth.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &auth.StaffUser{Username: "frontdesk", PasswordHash: hash, IsActive: true}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byName, err := store.GetByUsername(ctx, "frontdesk")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != u.ID || !auth.CheckPassword(byName.PasswordHash, "correct horse battery") {
		t.Errorf("unexpected staff user: %+v", byName)
	}

	if _, err := store.GetByID(ctx, u.ID); err != nil {
		t.Errorf("GetByID: %v", err)
	}
	if _, err := store.GetByID(ctx, uuid.New()); !errors.Is(err, auth.ErrStaffNotFound) {
		t.Errorf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestStaffStore_DuplicateUsername(t *testing.T) {
	pool := freshDB(t)
	ctx := context.Background()
	store := auth.NewStaffStorePG(pool)

	if err := store.Create(ctx, &auth.StaffUser{Username: "admin", PasswordHash: "x", IsActive: true}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := store.Create(ctx, &auth.StaffUser{Username: "admin", PasswordHash: "y", IsActive: true})
	if !errors.Is(err, auth.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

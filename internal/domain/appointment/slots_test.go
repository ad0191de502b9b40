package appointment

import (
	"errors"
	"testing"

	"github.com/docbook/docbook/internal/platform/validation"
)

func TestGrid(t *testing.T) {
	g := Grid()
	if len(g) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(g))
	}
	if g[0] != "09:00" || g[1] != "09:30" || g[15] != "16:30" {
		t.Errorf("unexpected grid bounds %v", g)
	}
	for i := 1; i < len(g); i++ {
		if g[i-1] >= g[i] {
			t.Errorf("grid not strictly increasing at %d: %s >= %s", i, g[i-1], g[i])
		}
	}

	g[0] = "mutated"
	if Grid()[0] != "09:00" {
		t.Error("Grid must return a copy")
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantMsg string
	}{
		{"09:00", "09:00", ""},
		{"9:00", "09:00", ""},
		{"9:30", "09:30", ""},
		{"14:30:00", "14:30", ""},
		{" 10:00 ", "10:00", ""},
		{"16:30", "16:30", ""},
		{"14:30:15", "", "Invalid time format. Use HH:MM"},
		{"25:00", "", "Invalid time format. Use HH:MM"},
		{"9:0", "", "Invalid time format. Use HH:MM"},
		{"009:00", "", "Invalid time format. Use HH:MM"},
		{"noon", "", "Invalid time format. Use HH:MM"},
		{"", "", "Invalid time format. Use HH:MM"},
		{"17:00", "", "Appointments available between 9 AM and 5 PM only"},
		{"8:30", "", "Appointments available between 9 AM and 5 PM only"},
		{"09:15", "", "Appointments must be on 30-minute intervals (e.g., 9:00, 9:30)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSlot(tt.in)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("parseSlot(%q) unexpected error: %v", tt.in, err)
				}
				if got != tt.want {
					t.Errorf("parseSlot(%q) = %q, want %q", tt.in, got, tt.want)
				}
				return
			}
			var verr *validation.Error
			if !errors.As(err, &verr) || !errors.Is(err, ErrInvalidTime) {
				t.Fatalf("parseSlot(%q): expected ErrInvalidTime validation error, got %v", tt.in, err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("parseSlot(%q) message = %q, want %q", tt.in, verr.Message, tt.wantMsg)
			}
		})
	}
}

// Every label parseSlot accepts is a grid label.
func TestParseSlot_MatchesGrid(t *testing.T) {
	for _, label := range Grid() {
		got, err := parseSlot(label)
		if err != nil || got != label {
			t.Errorf("parseSlot(%q) = %q, %v", label, got, err)
		}
	}
}

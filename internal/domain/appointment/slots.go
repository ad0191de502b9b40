package appointment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docbook/docbook/internal/platform/validation"
)

// Consultation hours: half-hour slots from OpeningHour up to, not including,
// ClosingHour.
const (
	OpeningHour = 9
	ClosingHour = 17
	SlotMinutes = 30
)

var grid = buildGrid()

func buildGrid() []string {
	var out []string
	for h := OpeningHour; h < ClosingHour; h++ {
		for m := 0; m < 60; m += SlotMinutes {
			out = append(out, clock{hour: h, minute: m}.label())
		}
	}
	return out
}

// Grid returns the bookable slot labels in chronological order
// ("09:00", "09:30", ..., "16:30"). The result is a fresh copy.
func Grid() []string {
	return append([]string(nil), grid...)
}

// clock is a parsed time of day.
type clock struct {
	hour, minute int
}

func (c clock) label() string {
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

// parseClock accepts H:MM, HH:MM or HH:MM:SS with zero seconds.
func parseClock(s string) (clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return clock{}, fmt.Errorf("time %q: expected HH:MM", s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 && !(i == 0 && len(p) == 1) {
			return clock{}, fmt.Errorf("time %q: expected HH:MM", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return clock{}, fmt.Errorf("time %q: expected HH:MM", s)
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 {
		return clock{}, fmt.Errorf("time %q: out of range", s)
	}
	if len(nums) == 3 && nums[2] != 0 {
		return clock{}, fmt.Errorf("time %q: seconds must be zero", s)
	}
	return clock{hour: nums[0], minute: nums[1]}, nil
}

// parseSlot normalises s to a grid label. Malformed input, times outside
// consultation hours and times between slots each get their own message.
func parseSlot(s string) (string, error) {
	c, err := parseClock(s)
	if err != nil {
		return "", validation.NewError("appointment_time", "invalid_time", ErrInvalidTime, "Invalid time format. Use HH:MM")
	}
	if c.hour < OpeningHour || c.hour >= ClosingHour {
		return "", validation.NewError("appointment_time", "invalid_time", ErrInvalidTime, "Appointments available between 9 AM and 5 PM only")
	}
	if c.minute%SlotMinutes != 0 {
		return "", validation.NewError("appointment_time", "invalid_time", ErrInvalidTime, "Appointments must be on 30-minute intervals (e.g., 9:00, 9:30)")
	}
	return c.label(), nil
}

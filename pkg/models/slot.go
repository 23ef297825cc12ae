package models

import (
	"fmt"
	"strings"
	"time"
)

// Slot is one fixed one-hour interval, referenced by its start label.
type Slot struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// timeSlots are the 14 bookable intervals between 08:00 and 22:00.
var timeSlots = []Slot{
	{"08:00", "08:00 – 09:00"},
	{"09:00", "09:00 – 10:00"},
	{"10:00", "10:00 – 11:00"},
	{"11:00", "11:00 – 12:00"},
	{"12:00", "12:00 – 13:00"},
	{"13:00", "13:00 – 14:00"},
	{"14:00", "14:00 – 15:00"},
	{"15:00", "15:00 – 16:00"},
	{"16:00", "16:00 – 17:00"},
	{"17:00", "17:00 – 18:00"},
	{"18:00", "18:00 – 19:00"},
	{"19:00", "19:00 – 20:00"},
	{"20:00", "20:00 – 21:00"},
	{"21:00", "21:00 – 22:00"},
}

// Slots returns the ordered slot catalog.
func Slots() []Slot {
	out := make([]Slot, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// IsSlotValue reports whether v is one of the fixed slot start labels.
func IsSlotValue(v string) bool {
	for _, s := range timeSlots {
		if s.Value == v {
			return true
		}
	}
	return false
}

// SlotLabel returns the display label for a slot value, or the value
// itself when it is not in the catalog.
func SlotLabel(v string) string {
	for _, s := range timeSlots {
		if s.Value == v {
			return s.Label
		}
	}
	return v
}

// SlotStart parses the start time of a slot. The stored representation
// may be either a bare start time ("21:00") or a start–end range
// ("21:00 – 22:00"); only the portion before the separator is parsed.
func SlotStart(v string) (hour, minute int, err error) {
	start := v
	for _, sep := range []string{"–", "-"} {
		if i := strings.Index(start, sep); i >= 0 {
			start = start[:i]
			break
		}
	}
	start = strings.TrimSpace(start)

	t, err := time.Parse("15:04", start)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid booking time format: %q", v)
	}
	return t.Hour(), t.Minute(), nil
}

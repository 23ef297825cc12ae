package models

import (
	"testing"
	"time"
)

func TestSlotCatalog(t *testing.T) {
	slots := Slots()

	if len(slots) != 14 {
		t.Fatalf("Slots() returned %d slots, want 14", len(slots))
	}
	if slots[0].Value != "08:00" || slots[0].Label != "08:00 – 09:00" {
		t.Errorf("first slot = %+v, want 08:00 / 08:00 – 09:00", slots[0])
	}
	if slots[13].Value != "21:00" || slots[13].Label != "21:00 – 22:00" {
		t.Errorf("last slot = %+v, want 21:00 / 21:00 – 22:00", slots[13])
	}

	// The returned slice is a copy; mutating it must not touch the catalog.
	slots[0].Value = "mutated"
	if Slots()[0].Value != "08:00" {
		t.Error("Slots() exposes internal catalog state")
	}
}

func TestIsSlotValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"08:00", true},
		{"21:00", true},
		{"22:00", false},
		{"07:00", false},
		{"08:30", false},
		{"", false},
		{"08:00 – 09:00", false}, // labels are not values
	}
	for _, tt := range tests {
		if got := IsSlotValue(tt.value); got != tt.want {
			t.Errorf("IsSlotValue(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestSlotLabel(t *testing.T) {
	if got := SlotLabel("14:00"); got != "14:00 – 15:00" {
		t.Errorf("SlotLabel(14:00) = %q", got)
	}
	// Unknown values pass through unchanged.
	if got := SlotLabel("xx"); got != "xx" {
		t.Errorf("SlotLabel(xx) = %q", got)
	}
}

func TestSlotStart(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantHour int
		wantMin  int
		wantErr  bool
	}{
		{"bare start", "21:00", 21, 0, false},
		{"en dash range", "21:00 – 22:00", 21, 0, false},
		{"hyphen range", "09:00 - 10:00", 9, 0, false},
		{"no spaces", "09:00-10:00", 9, 0, false},
		{"garbage", "soon", 0, 0, true},
		{"empty", "", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := SlotStart(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SlotStart(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if hour != tt.wantHour || minute != tt.wantMin {
				t.Errorf("SlotStart(%q) = %d:%02d, want %d:%02d",
					tt.value, hour, minute, tt.wantHour, tt.wantMin)
			}
		})
	}
}

func TestCombineDateSlot(t *testing.T) {
	got, err := CombineDateSlot("2026-09-01", "18:00", time.UTC)
	if err != nil {
		t.Fatalf("CombineDateSlot: %v", err)
	}
	want := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CombineDateSlot = %v, want %v", got, want)
	}

	if _, err := CombineDateSlot("01/09/2026", "18:00", time.UTC); err == nil {
		t.Error("CombineDateSlot accepted a malformed date")
	}
	if _, err := CombineDateSlot("2026-09-01", "later", time.UTC); err == nil {
		t.Error("CombineDateSlot accepted a malformed slot")
	}
}

package eventcal

import (
	"testing"
	"time"
)

func TestDayKeyUsesCalendarTimezone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cal := NewInLocation(kolkata)

	// 20:00 UTC on Jan 1 is already 01:30 on Jan 2 in Kolkata.
	instant := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	date, _ := cal.DayKey(instant)
	if date != "2026-01-02" {
		t.Errorf("date = %q, want 2026-01-02", date)
	}
}

func TestDayKeyPairIsConsistent(t *testing.T) {
	cal := NewInLocation(time.UTC)

	date1, idx1 := cal.DayKey(time.Date(2026, 3, 10, 0, 0, 1, 0, time.UTC))
	date2, idx2 := cal.DayKey(time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC))

	if date1 != date2 || idx1 != idx2 {
		t.Errorf("same day gave (%q,%d) and (%q,%d)", date1, idx1, date2, idx2)
	}

	date3, idx3 := cal.DayKey(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if date3 == date1 {
		t.Error("next day should give a new date string")
	}
	if idx3 != idx1+1 {
		t.Errorf("day index should increment by one, got %d after %d", idx3, idx1)
	}
}

func TestDayKeyEpoch(t *testing.T) {
	cal := NewInLocation(time.UTC)

	_, idx := cal.DayKey(time.Date(1970, 1, 1, 12, 0, 0, 0, time.UTC))
	if idx != 0 {
		t.Errorf("epoch day index = %d, want 0", idx)
	}
}

func TestNewFallsBackOnUnknownZone(t *testing.T) {
	cal := New("Not/AZone")
	if cal.Location() == nil {
		t.Fatal("calendar must always carry a location")
	}
}

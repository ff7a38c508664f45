package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone Europe/Sofia",
			timezone: "Europe/Sofia",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestSystemClock(t *testing.T) {
	clock, err := NewSystemClock("UTC")
	if err != nil {
		t.Fatalf("NewSystemClock() error = %v", err)
	}
	if clock.Now().Location().String() != "UTC" {
		t.Errorf("Now() location = %v, want UTC", clock.Now().Location())
	}
	if !IsValidDate(clock.Today()) {
		t.Errorf("Today() = %q, not a valid date", clock.Today())
	}

	if _, err := NewSystemClock("Invalid/Timezone"); err == nil {
		t.Error("NewSystemClock() accepted an invalid timezone")
	}
}

func TestFixedClock(t *testing.T) {
	clock := NewFixedClock("2024-03-10")
	if got := clock.Today(); got != "2024-03-10" {
		t.Errorf("Today() = %q, want 2024-03-10", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		n       int
		want    string
		wantErr bool
	}{
		{name: "previous day", date: "2024-01-07", n: -1, want: "2024-01-06"},
		{name: "month boundary", date: "2024-03-01", n: -1, want: "2024-02-29"},
		{name: "year boundary", date: "2023-12-31", n: 1, want: "2024-01-01"},
		{name: "dst spring forward in UTC", date: "2024-03-31", n: -7, want: "2024-03-24"},
		{name: "invalid date", date: "2024-02-30", n: 1, wantErr: true},
		{name: "wrong format", date: "2024/01/01", n: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddDays(tt.date, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddDays() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.n, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	got, err := DaysBetween("2024-01-01", "2024-01-08")
	if err != nil {
		t.Fatalf("DaysBetween() error = %v", err)
	}
	if got != 7 {
		t.Errorf("DaysBetween() = %d, want 7", got)
	}

	got, err = DaysBetween("2024-01-08", "2024-01-01")
	if err != nil {
		t.Fatalf("DaysBetween() error = %v", err)
	}
	if got != -7 {
		t.Errorf("DaysBetween() = %d, want -7", got)
	}
}

func TestParseDateInLocation(t *testing.T) {
	sofia, _ := time.LoadLocation("Europe/Sofia")

	got, err := ParseDateInLocation("2026-01-15", sofia)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.January || got.Day() != 15 {
		t.Errorf("ParseDateInLocation() = %v, want 2026-01-15", got)
	}
	if got.Location() != sofia {
		t.Errorf("ParseDateInLocation() location = %v, want %v", got.Location(), sofia)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("ParseDateInLocation() time = %02d:%02d, want 00:00", got.Hour(), got.Minute())
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		timezone string
		want     bool
	}{
		{"", true},
		{"Local", true},
		{"UTC", true},
		{"Europe/Sofia", true},
		{"not-a-timezone", false},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			if got := ValidateTimezone(tt.timezone); got != tt.want {
				t.Errorf("ValidateTimezone(%q) = %v, want %v", tt.timezone, got, tt.want)
			}
		})
	}
}

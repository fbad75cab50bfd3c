package services

import (
	"testing"
	"time"

	"spendwise/internal/core"
)

func TestNextDue(t *testing.T) {
	tests := []struct {
		name string
		freq core.Frequency
		from core.Date
		want core.Date
	}{
		{"daily crosses month", core.EveryDay, core.NewDate(2024, 1, 31), core.NewDate(2024, 2, 1)},
		{"weekly", core.EveryWeek, core.NewDate(2024, 1, 31), core.NewDate(2024, 2, 7)},
		{"monthly", core.EveryMonth, core.NewDate(2025, 5, 15), core.NewDate(2025, 6, 15)},
		{"monthly from Jan 31 overflows", core.EveryMonth, core.NewDate(2025, 1, 31), core.NewDate(2025, 3, 3)},
		{"monthly from Jan 31 in leap year", core.EveryMonth, core.NewDate(2024, 1, 31), core.NewDate(2024, 3, 2)},
		{"yearly from Feb 29", core.EveryYear, core.NewDate(2024, 2, 29), core.NewDate(2025, 3, 1)},
		{"yearly crosses year", core.EveryYear, core.NewDate(2024, 12, 31), core.NewDate(2025, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDue(tt.freq, tt.from)
			if err != nil {
				t.Fatalf("NextDue() error = %v", err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("NextDue(%s, %s) = %s, want %s", tt.freq, tt.from, got, tt.want)
			}
		})
	}
}

func TestNextDue_UnknownFrequency(t *testing.T) {
	if _, err := NextDue(core.Frequency("hourly"), core.NewDate(2025, 1, 1)); err == nil {
		t.Error("expected error for unknown frequency")
	}
	if _, err := GetScheduler(""); err == nil {
		t.Error("expected error for empty frequency")
	}
}

func TestStatusOf(t *testing.T) {
	afternoon := time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)
	midnight := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		due      core.Date
		now      time.Time
		wantDays int
		want     DueStatus
	}{
		{"yesterday is overdue", core.NewDate(2025, 6, 17), afternoon, -1, DueOverdue},
		{"last week is overdue", core.NewDate(2025, 6, 11), afternoon, -7, DueOverdue},
		{"today in the afternoon is due", core.NewDate(2025, 6, 18), afternoon, 0, DueToday},
		{"today at midnight is due", core.NewDate(2025, 6, 18), midnight, 0, DueToday},
		{"tomorrow is soon", core.NewDate(2025, 6, 19), afternoon, 1, DueSoon},
		{"three days rounded up is soon", core.NewDate(2025, 6, 21), afternoon, 3, DueSoon},
		{"three days at midnight is soon", core.NewDate(2025, 6, 21), midnight, 3, DueSoon},
		{"four days is future", core.NewDate(2025, 6, 22), afternoon, 4, DueLater},
		{"next month is future", core.NewDate(2025, 7, 18), afternoon, 30, DueLater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntil(tt.due, tt.now); got != tt.wantDays {
				t.Errorf("DaysUntil() = %d, want %d", got, tt.wantDays)
			}
			if got := StatusOf(tt.due, tt.now); got != tt.want {
				t.Errorf("StatusOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatusOf_UsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 23:00 on June 17 locally is already June 18 in UTC.
	now := time.Date(2025, 6, 17, 23, 0, 0, 0, loc)

	if got := StatusOf(core.NewDate(2025, 6, 17), now); got != DueToday {
		t.Errorf("StatusOf(today local) = %s, want %s", got, DueToday)
	}
	if got := StatusOf(core.NewDate(2025, 6, 18), now); got != DueSoon {
		t.Errorf("StatusOf(tomorrow local) = %s, want %s", got, DueSoon)
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		due    core.Date
		active bool
		want   bool
	}{
		{"active overdue", core.NewDate(2025, 6, 1), true, true},
		{"active due today", core.NewDate(2025, 6, 18), true, true},
		{"active due tomorrow", core.NewDate(2025, 6, 19), true, false},
		{"inactive overdue", core.NewDate(2025, 6, 1), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := core.RecurringExpense{NextDue: tt.due, IsActive: tt.active}
			if got := IsDue(r, now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

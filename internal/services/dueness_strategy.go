// This file implements the Strategy Pattern for recurring expense schedules.
// Each frequency has its own strategy that knows how to advance a due date.

package services

import (
	"fmt"
	"math"
	"time"

	"spendwise/internal/core"
)

// DueStatus describes how close a recurring expense is to its next due date.
type DueStatus string

const (
	DueOverdue DueStatus = "overdue"
	DueToday   DueStatus = "due"
	DueSoon    DueStatus = "soon"
	DueLater   DueStatus = "future"
)

// dueSoonDays is the widest gap, in days, still reported as DueSoon.
const dueSoonDays = 3

// Scheduler is the strategy interface for advancing a recurring expense.
type Scheduler interface {
	// NextDue returns the due date following from.
	NextDue(from core.Date) core.Date
}

type DailySchedule struct{}

func (DailySchedule) NextDue(from core.Date) core.Date {
	return core.Date{Time: from.AddDate(0, 0, 1)}
}

type WeeklySchedule struct{}

func (WeeklySchedule) NextDue(from core.Date) core.Date {
	return core.Date{Time: from.AddDate(0, 0, 7)}
}

// MonthlySchedule adds one calendar month. Days past the end of the
// target month roll over, so Jan 31 advances to Mar 3 (Mar 2 in leap years).
type MonthlySchedule struct{}

func (MonthlySchedule) NextDue(from core.Date) core.Date {
	return core.Date{Time: from.AddDate(0, 1, 0)}
}

type YearlySchedule struct{}

func (YearlySchedule) NextDue(from core.Date) core.Date {
	return core.Date{Time: from.AddDate(1, 0, 0)}
}

var schedules = map[core.Frequency]Scheduler{
	core.EveryDay:   DailySchedule{},
	core.EveryWeek:  WeeklySchedule{},
	core.EveryMonth: MonthlySchedule{},
	core.EveryYear:  YearlySchedule{},
}

// GetScheduler returns the strategy for a frequency.
func GetScheduler(f core.Frequency) (Scheduler, error) {
	s, ok := schedules[f]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", f)
	}
	return s, nil
}

// NextDue advances from by one period of f.
func NextDue(f core.Frequency, from core.Date) (core.Date, error) {
	s, err := GetScheduler(f)
	if err != nil {
		return core.Date{}, err
	}
	return s.NextDue(from), nil
}

// DaysUntil returns the whole days from now until midnight of due in now's
// location, rounded up. Today's date yields 0 and yesterday -1.
func DaysUntil(due core.Date, now time.Time) int {
	hours := due.At(now.Location()).Sub(now).Hours()
	return int(math.Ceil(hours / 24))
}

// StatusOf classifies due relative to now.
func StatusOf(due core.Date, now time.Time) DueStatus {
	switch days := DaysUntil(due, now); {
	case days < 0:
		return DueOverdue
	case days == 0:
		return DueToday
	case days <= dueSoonDays:
		return DueSoon
	default:
		return DueLater
	}
}

// IsDue reports whether an active template should be executed now.
func IsDue(r core.RecurringExpense, now time.Time) bool {
	if !r.IsActive {
		return false
	}
	s := StatusOf(r.NextDue, now)
	return s == DueOverdue || s == DueToday
}

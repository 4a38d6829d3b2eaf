package timeutil

import (
	"strings"
	"time"
)

// Unit represents a calendar unit for relative date arithmetic
type Unit string

const (
	UnitYear    Unit = "year"
	UnitQuarter Unit = "quarter"
	UnitMonth   Unit = "month"
	UnitWeek    Unit = "week"
	UnitDay     Unit = "day"
	UnitHour    Unit = "hour"
	UnitMinute  Unit = "minute"
	UnitSecond  Unit = "second"
)

// Add returns base shifted by amount units in local time.
// Calendar units (year, quarter, month, week, day) follow calendar arithmetic,
// so adding a month to Jan 31 lands on the calendar-normalized date the way
// time.AddDate does. An unrecognized unit returns a zero time and false.
func Add(base time.Time, unit Unit, amount int) (time.Time, bool) {
	switch Unit(strings.ToLower(string(unit))) {
	case UnitYear:
		return base.AddDate(amount, 0, 0), true
	case UnitQuarter:
		return base.AddDate(0, 3*amount, 0), true
	case UnitMonth:
		return base.AddDate(0, amount, 0), true
	case UnitWeek:
		return base.AddDate(0, 0, 7*amount), true
	case UnitDay:
		return base.AddDate(0, 0, amount), true
	case UnitHour:
		return base.Add(time.Duration(amount) * time.Hour), true
	case UnitMinute:
		return base.Add(time.Duration(amount) * time.Minute), true
	case UnitSecond:
		return base.Add(time.Duration(amount) * time.Second), true
	}
	return time.Time{}, false
}

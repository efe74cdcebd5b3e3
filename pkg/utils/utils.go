package utils

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t by the given number of calendar months, keeping the time of day.
// The day of month is clamped to the last day of the target month,
// so Jan 31 + 1 month is the last day of February.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// Normalize the target month on the first day, then clamp the day
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := DaysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// SetDayOfMonth returns t with its day of month replaced by day.
// Days past the end of the month are clamped to the last day; days below 1 become 1.
func SetDayOfMonth(t time.Time, day int) time.Time {
	year, month, _ := t.Date()
	hour, min, sec := t.Clock()

	if day < 1 {
		day = 1
	}
	if last := DaysInMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// IsDateOverdue checks if a due date is strictly before now
func IsDateOverdue(dueDate, now time.Time) bool {
	return dueDate.Before(now)
}

// RoundToUnit rounds an amount to the nearest whole currency unit
func RoundToUnit(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// RoundCents rounds an amount to the 2 decimals the database stores
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Round2 rounds a float to 2 decimal places
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// IsFinite reports whether value is neither NaN nor infinite
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// ToEpochMillis converts a time to milliseconds since the Unix epoch
func ToEpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromEpochMillis converts milliseconds since the Unix epoch to a UTC time
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

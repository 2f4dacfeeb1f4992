package compliance

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar date, day granularity, UTC
// =============================================================================

// Date is a calendar date. The engine never deals in times of day or
// time zones; all legal arithmetic is whole-day arithmetic.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// DaysBetween returns whole days from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// MONTH PERIOD - The proration unit for benefit calculation
// =============================================================================

// MonthPeriod identifies a calendar month. Benefit amounts are monthly
// figures; proration scales them by the covered fraction of this month.
type MonthPeriod struct {
	Year  int
	Month time.Month
}

func NewMonthPeriod(year int, month time.Month) MonthPeriod {
	return MonthPeriod{Year: year, Month: month}
}

// Start returns the first day of the month.
func (p MonthPeriod) Start() Date { return NewDate(p.Year, p.Month, 1) }

// End returns the last day of the month.
func (p MonthPeriod) End() Date {
	t := time.Date(p.Year, p.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}

// Days returns the number of days in the month.
func (p MonthPeriod) Days() int { return p.End().Day() }

// Contains returns true if the date falls within the month.
func (p MonthPeriod) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

func (p MonthPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// PeriodLayout is the Go time layout of a billing period token
const PeriodLayout = "2006-01"

// ErrInvalidPeriod is returned for tokens that are not a YYYY-MM month
var ErrInvalidPeriod = errors.New("period must be formatted as YYYY-MM")

// Period is a calendar-month billing cycle such as "2025-09".
// The zero value is not a valid period.
type Period struct {
	year  int
	month time.Month
}

// ParsePeriod validates a 7-character YYYY-MM token
func ParsePeriod(s string) (Period, error) {
	if len(s) != 7 || s[4] != '-' {
		return Period{}, ErrInvalidPeriod
	}
	for i, c := range s {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return Period{}, ErrInvalidPeriod
		}
	}
	t, err := time.Parse(PeriodLayout, s)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{year: t.Year(), month: t.Month()}, nil
}

// MustPeriod parses a period and panics on error. Intended for tests.
func MustPeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(fmt.Sprintf("invalid period %q", s))
	}
	return p
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{year: t.Year(), month: t.Month()}
}

// IsZero reports whether p is the zero value
func (p Period) IsZero() bool {
	return p.year == 0 && p.month == 0
}

// Year returns the period's year
func (p Period) Year() int {
	return p.year
}

// Month returns the period's month
func (p Period) Month() time.Month {
	return p.month
}

// String renders the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, int(p.month))
}

// FirstDay returns midnight UTC of the first day of the period
func (p Period) FirstDay() time.Time {
	return time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following period
func (p Period) Next() Period {
	return PeriodOf(p.FirstDay().AddDate(0, 1, 0))
}

// DayOf returns the given day of the period, clamped to the month's last day
func (p Period) DayOf(day int) time.Time {
	last := p.FirstDay().AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(p.year, p.month, day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether p is earlier than other
func (p Period) Before(other Period) bool {
	if p.year != other.year {
		return p.year < other.year
	}
	return p.month < other.month
}

// Value implements driver.Valuer
func (p Period) Value() (driver.Value, error) {
	return p.String(), nil
}

// MarshalText implements encoding.TextMarshaler
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

package domain

import (
	"fmt"
	"time"
)

// Period identifies a calendar month. Budgets and monthly reports are scoped
// to a period; two periods are equal iff their year and month are equal.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing the given instant.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// CurrentPeriod returns the period containing the current instant.
func CurrentPeriod() Period {
	return PeriodOf(time.Now())
}

// ParsePeriod parses a period in "YYYY-MM" form.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: invalid period %q, want YYYY-MM", ErrValidation, s)
	}
	return PeriodOf(t), nil
}

// AddMonths returns the period n months after p. n may be negative.
func (p Period) AddMonths(n int) Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return PeriodOf(t)
}

// IsZero reports whether p is the zero period.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

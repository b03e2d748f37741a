package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// minYear is the first year the portal serves schedules for.
const minYear = 2015

// PeriodCode is an academic term, a year plus the half (1 or 2).
type PeriodCode struct {
	Year int
	Half int
}

// ParsePeriodCode accepts both the portal form ("20241") and the display
// form ("2024-1").
func ParsePeriodCode(s string) (PeriodCode, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if len(raw) != 5 {
		return PeriodCode{}, fmt.Errorf("invalid period '%s': expected 5 digits", s)
	}
	year, err := strconv.Atoi(raw[:4])
	if err != nil {
		return PeriodCode{}, fmt.Errorf("invalid period '%s': %w", s, err)
	}
	half, err := strconv.Atoi(raw[4:])
	if err != nil {
		return PeriodCode{}, fmt.Errorf("invalid period '%s': %w", s, err)
	}
	if half != 1 && half != 2 {
		return PeriodCode{}, fmt.Errorf("invalid period '%s': half must be 1 or 2", s)
	}
	if year < minYear {
		return PeriodCode{}, fmt.Errorf("invalid period '%s': year must be at least %d", s, minYear)
	}
	return PeriodCode{Year: year, Half: half}, nil
}

// CurrentPeriod returns the term in progress at the given time, January to
// July belong to the first half.
func CurrentPeriod(now time.Time) PeriodCode {
	half := 2
	if now.Month() <= time.July {
		half = 1
	}
	return PeriodCode{Year: now.Year(), Half: half}
}

// String returns the portal form of the code (ex. "20241").
func (p PeriodCode) String() string {
	return fmt.Sprintf("%04d%d", p.Year, p.Half)
}

// Display returns the form stored in the relational database (ex. "2024-1").
func (p PeriodCode) Display() string {
	return fmt.Sprintf("%04d-%d", p.Year, p.Half)
}

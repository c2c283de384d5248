package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"internhub/internal/apperrors"
)

const (
	daysPerMonth = 30
	daysPerYear  = 365
)

var durationPattern = regexp.MustCompile(`^(\d+)\s+(month|months|year|years)$`)

// DurationDays converts "<n> month(s)|year(s)" into days using fixed 30/365-day
// approximations. Calendar-accurate arithmetic would shift existing end dates.
func DurationDays(duration string) (int, error) {
	m := durationPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(duration)))
	if m == nil {
		return 0, apperrors.InvalidDuration(duration)
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil || amount <= 0 {
		return 0, apperrors.InvalidDuration(duration)
	}
	if strings.HasPrefix(m[2], "year") {
		return amount * daysPerYear, nil
	}
	return amount * daysPerMonth, nil
}

// EndDateFor returns the last day of a window of the given length starting on
// start, counting the start day itself.
func EndDateFor(start time.Time, days int) time.Time {
	return dateOnly(start).AddDate(0, 0, days-1)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

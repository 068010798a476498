package progression

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var weekIDRegex = regexp.MustCompile(`^(\d{4})-W(\d{1,2})$`)

// WeekID identifies an ISO-8601 week, e.g. 2026-W42.
type WeekID struct {
	Year int
	Week int
}

func WeekOf(t time.Time) WeekID {
	year, week := t.UTC().ISOWeek()
	return WeekID{Year: year, Week: week}
}

func ParseWeekID(s string) (WeekID, error) {
	m := weekIDRegex.FindStringSubmatch(s)
	if m == nil {
		return WeekID{}, fmt.Errorf("invalid week id [%s], expected YYYY-Www", s)
	}

	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	w := WeekID{Year: year, Week: week}
	if week < 1 || WeekOf(w.Start()) != w {
		return WeekID{}, fmt.Errorf("week %d does not exist in year %d", week, year)
	}

	return w, nil
}

func (w WeekID) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// Start returns Monday 00:00 UTC of the week.
func (w WeekID) Start() time.Time {
	// January 4th is always in the first ISO week
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	firstMonday := jan4.AddDate(0, 0, -offset)
	return firstMonday.AddDate(0, 0, (w.Week-1)*7)
}

// Lookback returns the [from, to) window covering the given number of
// completed weeks right before this one.
func (w WeekID) Lookback(weeks int) (from, to time.Time) {
	if weeks < 1 {
		weeks = 1
	}
	to = w.Start()
	from = to.AddDate(0, 0, -7*weeks)
	return from, to
}

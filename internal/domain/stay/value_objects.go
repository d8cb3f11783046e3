package stay

import (
	"errors"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("start date must be before end date")

// Day truncates t to its calendar date in t's own location and returns it as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the calendar date of now as seen from loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(now.In(loc))
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// DateRange is a half-open span of nights: start is the arrival date, end the departure date.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := Day(start), Day(end)
	if !s.Before(e) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{start: s, end: e}, nil
}

func ParseDateRange(from, to string) (DateRange, error) {
	s, err := ParseDate(from)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	e, err := ParseDate(to)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	return NewDateRange(s, e)
}

// MustDateRange is for fixtures and tests.
func MustDateRange(from, to string) DateRange {
	r, err := ParseDateRange(from, to)
	if err != nil {
		panic(err)
	}
	return r
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

func (r DateRange) Nights() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

// Touches reports whether the ranges overlap or are back to back.
func (r DateRange) Touches(other DateRange) bool {
	return !r.start.After(other.end) && !other.start.After(r.end)
}

// Contains reports whether the night starting on date d is inside the range.
func (r DateRange) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(r.start) && d.Before(r.end)
}

func (r DateRange) Covers(other DateRange) bool {
	return !other.start.Before(r.start) && !other.end.After(r.end)
}

func (r DateRange) Equal(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

// Clip returns the part of r inside window; ok is false when they do not overlap.
func (r DateRange) Clip(window DateRange) (DateRange, bool) {
	if !r.Overlaps(window) {
		return DateRange{}, false
	}
	s, e := r.start, r.end
	if window.start.After(s) {
		s = window.start
	}
	if window.end.Before(e) {
		e = window.end
	}
	return DateRange{start: s, end: e}, true
}

// Union spans both ranges. Callers check Touches first.
func (r DateRange) Union(other DateRange) DateRange {
	s, e := r.start, r.end
	if other.start.Before(s) {
		s = other.start
	}
	if other.end.After(e) {
		e = other.end
	}
	return DateRange{start: s, end: e}
}

// WithEnd returns a copy ending on end, or false if that would leave no nights.
func (r DateRange) WithEnd(end time.Time) (DateRange, bool) {
	end = Day(end)
	if !r.start.Before(end) {
		return DateRange{}, false
	}
	return DateRange{start: r.start, end: end}, true
}

func (r DateRange) Days() []time.Time {
	days := make([]time.Time, 0, r.Nights())
	for d := r.start; d.Before(r.end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) String() string {
	return "[" + r.start.Format(DateLayout) + "," + r.end.Format(DateLayout) + ")"
}

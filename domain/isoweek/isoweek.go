// Package isoweek assigns dates to ISO-8601 week buckets and applies the
// inclusive study window.
package isoweek

import (
	"fmt"
	"time"
)

// Key is an ISO-8601 (year, week) bucket.
type Key struct {
	Year int
	Week int
}

func (k Key) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

// Less orders keys chronologically.
func (k Key) Less(o Key) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Week < o.Week
}

// Of returns the ISO-8601 year and week of the calendar date of t. Weeks start
// on Monday and week 1 is the week holding the year's first Thursday, so early
// January and late December dates can belong to the adjacent ISO year.
func Of(t time.Time) Key {
	y, w := Day(t).ISOWeek()
	return Key{Year: y, Week: w}
}

// Day truncates t to its calendar date in UTC, keeping the wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Window is an inclusive range of calendar dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t lies in [Start, End].
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(w.Start)) && !d.After(Day(w.End))
}

package tasks

import (
	"sort"
	"strings"
	"time"

	"github.com/juju/errors"
)

// DateFormat is the layout of dates accepted by ParseDate: day/month/year hour:minute:second
const DateFormat = "02/01/2006 15:04:05"

// Time location, default set by the time.Local (*time.Location)
var loc = time.Local

// SetGlobalLocation the time location for the package
func SetGlobalLocation(newLocation *time.Location) {
	loc = newLocation
}

// date parts accepted by BuildDate
var dateParts = map[string]bool{
	"year":   true,
	"month":  true,
	"day":    true,
	"hour":   true,
	"minute": true,
	"second": true,
}

// BuildDate returns a date from the given parts:
// year, month, day, hour, minute and second.
// The current time provides the values of the parts not given.
func BuildDate(parts map[string]int) (time.Time, error) {
	var unknown []string
	for k := range parts {
		if !dateParts[strings.ToLower(k)] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return time.Time{}, errors.NotValidf("date parts %v", unknown)
	}

	now := time.Now().In(loc)
	part := func(name string, def int) int {
		for k, v := range parts {
			if strings.ToLower(k) == name {
				return v
			}
		}
		return def
	}

	year := part("year", now.Year())
	month := part("month", int(now.Month()))
	day := part("day", now.Day())
	hour := part("hour", now.Hour())
	minute := part("minute", now.Minute())
	second := part("second", now.Second())

	d := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	// time.Date normalizes overflows, e.g. 31/02 becomes 03/03
	if d.Year() != year || int(d.Month()) != month || d.Day() != day ||
		d.Hour() != hour || d.Minute() != minute || d.Second() != second {
		return time.Time{}, errors.NotValidf("date %02d/%02d/%04d %02d:%02d:%02d",
			day, month, year, hour, minute, second)
	}
	return d, nil
}

// ParseDate returns a date parsed from DateFormat
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateFormat, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, errors.NewNotValid(err, "date "+value)
	}
	return d, nil
}

// Until returns the wall-clock duration from now to the target,
// negative if the target is in the past
func Until(target, now time.Time) time.Duration {
	return target.Sub(now)
}

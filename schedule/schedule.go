// Package schedule defines the recurring schedules of slackrelay background jobs
// (most notably, the deduplication sweeps)
package schedule

import (
	"fmt"
	"github.com/marcsantiago/gocron"
	"strings"
)

// Definition repesents a recurring job schedule
type Definition struct {
	// Interval value (every 1 minute would be expressed with an interval of 1). Must be set (a value of 0 is invalid)
	Interval uint64

	// Time unit of the interval. Valid time units are: "weeks", "hours", "days", "minutes", "seconds"
	Unit string

	// Optional "at time" value (i.e. "10:30")
	AtTime string
}

// Unit values
const (
	Weeks   = "weeks"
	Hours   = "hours"
	Days    = "days"
	Minutes = "minutes"
	Seconds = "seconds"
)

// Returns a human-friendly string for the Definition
func (d Definition) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Every ")

	if d.Interval == 1 {
		fmt.Fprintf(&b, "%s", strings.TrimSuffix(d.Unit, "s"))
	} else {
		fmt.Fprintf(&b, "%d %s", d.Interval, d.Unit)
	}

	if d.AtTime != "" {
		fmt.Fprintf(&b, " at %s", d.AtTime)
	}

	return b.String()
}

// NewJob sets up the gocron.Job with the schedule and leaves the task undefined for the caller to set up
func NewJob(s *gocron.Scheduler, d Definition) (j *gocron.Job, err error) {
	j = s.Every(d.Interval, false)

	switch d.Unit {
	case Weeks:
		j = j.Weeks()
	case Hours:
		j = j.Hours()
	case Days:
		j = j.Days()
	case Minutes:
		j = j.Minutes()
	case Seconds:
		j = j.Seconds()
	}

	if d.AtTime != "" {
		j = j.At(d.AtTime)
	}

	if j.Err() != nil {
		return nil, j.Err()
	}

	return j, nil
}

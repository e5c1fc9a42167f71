package schedule_test

import (
	"github.com/alexandre-normand/slackrelay/schedule"
	"github.com/marcsantiago/gocron"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestDefinitionString(t *testing.T) {
	definitionToString := []struct {
		d              schedule.Definition
		friendlyString string
	}{
		{schedule.Definition{Interval: 1, Unit: schedule.Seconds}, "Every second"},
		{schedule.Definition{Interval: 2, Unit: schedule.Seconds}, "Every 2 seconds"},
		{schedule.Definition{Interval: 1, Unit: schedule.Minutes}, "Every minute"},
		{schedule.Definition{Interval: 5, Unit: schedule.Minutes}, "Every 5 minutes"},
		{schedule.Definition{Interval: 1, Unit: schedule.Hours}, "Every hour"},
		{schedule.Definition{Interval: 2, Unit: schedule.Hours}, "Every 2 hours"},
		{schedule.Definition{Interval: 1, Unit: schedule.Days}, "Every day"},
		{schedule.Definition{Interval: 2, Unit: schedule.Days}, "Every 2 days"},
		{schedule.Definition{Interval: 1, Unit: schedule.Days, AtTime: "10:00"}, "Every day at 10:00"},
		{schedule.Definition{Interval: 2, Unit: schedule.Days, AtTime: "10:00"}, "Every 2 days at 10:00"},
		{schedule.Definition{Interval: 1, Unit: schedule.Weeks}, "Every week"},
		{schedule.Definition{Interval: 2, Unit: schedule.Weeks}, "Every 2 weeks"},
	}

	for _, testCase := range definitionToString {
		t.Run(testCase.friendlyString, func(t *testing.T) {
			friendlyStr := testCase.d.String()
			assert.Equalf(t, testCase.friendlyString, friendlyStr, "Expected different string value for schedule definition: %v", testCase.d)
		})
	}
}

func TestNewScheduledJobFromDefinition(t *testing.T) {
	definitionToResult := []struct {
		d            schedule.Definition
		valid        bool
		errorMessage string
	}{
		{schedule.Definition{Interval: 1, Unit: schedule.Seconds}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Seconds}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Minutes}, true, ""},
		{schedule.Definition{Interval: 5, Unit: schedule.Minutes}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Hours}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Hours}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Days}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Days}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Days, AtTime: "10:00"}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Days, AtTime: "10:00"}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Weeks}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Weeks}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Seconds, AtTime: "10:00"}, true, ""}, // gocron just ignores AtTime when not relevant to the unit
		{schedule.Definition{Interval: 1, Unit: schedule.Minutes, AtTime: "10:00"}, true, ""}, // gocron just ignores AtTime when not relevant to the unit
		{schedule.Definition{Interval: 1, Unit: schedule.Hours, AtTime: "10:00"}, true, ""},   // gocron just ignores AtTime when not relevant to the unit
	}

	scheduler := gocron.NewScheduler()
	for _, testCase := range definitionToResult {
		t.Run(testCase.d.String(), func(t *testing.T) {

			_, err := schedule.NewJob(scheduler, testCase.d)

			if testCase.valid {
				assert.Nilf(t, err, "Expected valid job to be created for schedule definition: %v", testCase.d)
			} else {
				if assert.NotNil(t, err) {
					assert.Contains(t, err.Error(), testCase.errorMessage)
				}
			}
		})
	}
}

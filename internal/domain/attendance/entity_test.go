package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stampsAt(in, out string) (time.Time, time.Time) {
	checkIn, _ := time.Parse(time.RFC3339, in)
	checkOut, _ := time.Parse(time.RFC3339, out)
	return checkIn, checkOut
}

func TestRecalculateWorkingHours(t *testing.T) {
	checkIn, checkOut := stampsAt("2025-06-16T09:00:00Z", "2025-06-16T18:00:00Z")

	att := Attendance{CheckIn: &checkIn, CheckOut: &checkOut}
	assert.Equal(t, 9.0, att.RecalculateWorkingHours(0))
	assert.Equal(t, 8.0, att.RecalculateWorkingHours(60))

	// Rounding to two decimals
	shortOut := checkIn.Add(7*time.Hour + 25*time.Minute)
	att.CheckOut = &shortOut
	assert.Equal(t, 6.42, att.RecalculateWorkingHours(60))

	// Break longer than presence floors at zero
	tinyOut := checkIn.Add(30 * time.Minute)
	att.CheckOut = &tinyOut
	assert.Equal(t, 0.0, att.RecalculateWorkingHours(60))
}

func TestRecalculateWorkingHoursNoOpWithoutBothStamps(t *testing.T) {
	checkIn, _ := stampsAt("2025-06-16T09:00:00Z", "2025-06-16T18:00:00Z")

	att := Attendance{CheckIn: &checkIn, WorkingHours: 3.5}
	assert.Equal(t, 3.5, att.RecalculateWorkingHours(60))
}

func TestAppendAndHasNote(t *testing.T) {
	att := Attendance{}
	assert.False(t, att.HasNote("On Leave (Annual Leave)"))

	att.AppendNote("Forgot badge")
	att.AppendNote("On Leave (Annual Leave)")
	assert.Equal(t, "Forgot badge\nOn Leave (Annual Leave)", *att.Notes)
	assert.True(t, att.HasNote("On Leave (Annual Leave)"))

	att.AppendNote("")
	assert.Equal(t, "Forgot badge\nOn Leave (Annual Leave)", *att.Notes)
}

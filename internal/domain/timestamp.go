package domain

import (
	"fmt"
	"time"
)

// ObservationTime reconstructs the timestamp of a record from its GG, mj,
// DD, SS and mm sub-fields. Station exports label midnight as hour 24 of the
// previous day; that is mapped to hour 0 of the next day. The result is
// truncated to the minute and carries no zone information beyond UTC.
func ObservationTime(rec RawRecord) (time.Time, error) {
	var parts [5]int
	for i, name := range []string{FieldYear, FieldMonth, FieldDay, FieldHour, FieldMinute} {
		v, ok := rec.Get(name)
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		parts[i] = v
	}
	year, month, day, hour, minute := 2000+parts[0], parts[1], parts[2], parts[3], parts[4]

	calErr := &CalendarError{Year: year, Month: month, Day: day, Hour: hour, Minute: minute}
	if !validDate(year, month, day) {
		return time.Time{}, calErr
	}
	if hour == 24 {
		day++
		hour = 0
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, calErr
	}
	// time.Date normalizes day overflow from the hour-24 rollover.
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(year, time.Month(month))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

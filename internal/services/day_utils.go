package services

import "time"

const dayLayout = "2006-01-02"

func DateAtLocation(t time.Time, location *time.Location) time.Time {
	local := t.In(location)
	year, month, day := local.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(day time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(day, location)
	return start, start.AddDate(0, 0, 1)
}

func ParseDay(raw string, location *time.Location) (time.Time, error) {
	return time.ParseInLocation(dayLayout, raw, location)
}

func FormatDay(day time.Time) string {
	return day.Format(dayLayout)
}

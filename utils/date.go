package utils

import "time"

const (
	// ExportStampLayout is the timestamp used in download filenames.
	ExportStampLayout = "2006-01-02-150405"
	// DisplayLayout is the timestamp printed on exported documents.
	DisplayLayout = "2006-01-02 15:04:05"
)

func FromUTCToTimezone(utcTime time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return utcTime
	}
	return utcTime.In(loc)
}

func ExportStamp(t time.Time) string {
	return t.Format(ExportStampLayout)
}

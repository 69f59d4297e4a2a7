package workbook

import (
	"fmt"
	"math"
	"time"
)

// SerialEpochOffset is the number of days between the spreadsheet epoch
// (1899-12-30) and the Unix epoch.
const SerialEpochOffset = 25569

// SecondsPerDay scales serial day counts to seconds.
const SecondsPerDay = 86400

// maxSerial bounds serials accepted by SerialToTime (year 9999).
const maxSerial = 2958465

// DateLayout is the DD/MM/YYYY rendering used for display and for the
// number format of date cells in written workbooks.
const DateLayout = "02/01/2006"

// SerialToTime converts a spreadsheet serial day number to a UTC time.
// It reports false for serials outside the representable calendar.
func SerialToTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < -maxSerial || serial > maxSerial {
		return time.Time{}, false
	}
	secs := math.Round((serial - SerialEpochOffset) * SecondsPerDay)
	return time.Unix(int64(secs), 0).UTC(), true
}

// TimeToSerial converts a time to its spreadsheet serial day number.
func TimeToSerial(t time.Time) float64 {
	t = t.UTC()
	secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return secs/SecondsPerDay + SerialEpochOffset
}

// FormatDate renders a time as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

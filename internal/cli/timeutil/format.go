// Package timeutil formats timestamps for CLI output.
package timeutil

import "time"

// LocalTimeFormat is how local times are rendered in tables and stat
// output (reference time: Mon Jan 2 15:04:05 2006).
const LocalTimeFormat = "Mon Jan 2 15:04:05 2006"

// FormatUnix renders a Unix timestamp in seconds as local time.
func FormatUnix(sec int64) string {
	return time.Unix(sec, 0).Local().Format(LocalTimeFormat)
}

// FormatTime renders an RFC3339 timestamp as local time, passing the
// input through unchanged when it does not parse.
func FormatTime(timestamp string) string {
	if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
		return t.Local().Format(LocalTimeFormat)
	}
	return timestamp
}

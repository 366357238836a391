package internal

import "time"

const (
	formatDDMMYYYY     = "02.01.2006"
	formatDDMMYYYYHHMM = "02.01.2006 15:04 MST"
)

func Format(date time.Time) string {
	return date.Format(formatDDMMYYYY)
}

// FormatDateTime renders an instant in UTC, e.g. a proposal deadline or a ledger entry.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(formatDDMMYYYYHHMM)
}

// database/encoding.go
package database

import (
	"fmt"
	"time"
)

// Timestamps cross the storage boundary as timezone-naive ISO-8601 strings.
// Encoding is explicit at the call site; there are no driver-level adapters,
// so what goes into a column is exactly what comes back out.
const (
	DateTimeLayout = "2006-01-02T15:04:05"
	DateLayout     = "2006-01-02"
)

// EncodeDateTime renders t in the fixed exchange representation used for
// snapshot-key columns.
func EncodeDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// EncodeDate renders t as a plain ISO date, used for date-typed columns in
// templated-document tables.
func EncodeDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DecodeDateTime parses a stored snapshot-key value. Accepts both the full
// datetime form and the plain date form.
func DecodeDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 timestamp: %q", s)
}

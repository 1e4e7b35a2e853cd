// loader/naming.go
package loader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)
	timestampRun = regexp.MustCompile(`_(\d{12,14})`)
)

// Normalize turns arbitrary text into a database identifier: lower-case,
// every run of non [a-z0-9] characters collapsed to a single underscore,
// leading and trailing underscores stripped. Idempotent.
func Normalize(name string) string {
	name = strings.ToLower(name)
	name = nonAlnumRuns.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// CategoryFromFilename derives the destination table name from an export
// file name. The normalized stem is split on underscores; when the second
// segment starts with a digit the category is the first segment alone,
// otherwise the first two segments joined. That distinguishes
// "item_availability_20240329..." (category item_availability) from
// "skus_status_11_04" (category skus_status).
func CategoryFromFilename(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(Normalize(stem), "_")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q needs at least one underscore in its stem", ErrInvalidFileName, base)
	}
	if parts[1][0] >= '0' && parts[1][0] <= '9' {
		return parts[0], nil
	}
	return parts[0] + "_" + parts[1], nil
}

// SnapshotKeyFromFilename extracts the export timestamp from a feed file
// name: the last underscore-preceded run of 12 or 14 consecutive digits.
// A 12-digit run is YYMMDDHHMMSS, a 14-digit run YYYYMMDDHHMMSS.
func SnapshotKeyFromFilename(path string) (time.Time, error) {
	base := filepath.Base(path)
	matches := timestampRun.FindAllStringSubmatch(base, -1)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("%w: no timestamp segment in %q", ErrDateParse, base)
	}
	digits := matches[len(matches)-1][1]

	var layout string
	switch len(digits) {
	case 12:
		layout = "060102150405"
	case 14:
		layout = "20060102150405"
	default:
		return time.Time{}, fmt.Errorf("%w: %d-digit run in %q", ErrDateParse, len(digits), base)
	}
	t, err := time.Parse(layout, digits)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q in %q", ErrDateParse, digits, base)
	}
	return t, nil
}

// RoundToSecond rounds a timestamp to the nearest whole second, half up.
func RoundToSecond(t time.Time) time.Time {
	return t.Add(500 * time.Millisecond).Truncate(time.Second)
}

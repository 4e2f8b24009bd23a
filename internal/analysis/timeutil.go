package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTimestamp renders seconds as zero-padded "mm:ss", adding the hour
// field only at 3600s and above.
func FormatTimestamp(sec int) string {
	if sec < 0 {
		sec = 0
	}
	if sec < 3600 {
		return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
	}
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}

// ParseTimestamp parses "mm:ss" or "hh:mm:ss" back to seconds.
func ParseTimestamp(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + n
	}
	return total, nil
}

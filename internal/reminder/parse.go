package reminder

import (
	"fmt"
	"strings"
	"time"
)

// dueLayouts lists the accepted due timestamp formats, tried in order. The
// first two match what the web form and chat flow write; the rest tolerate
// hand-edited rows.
var dueLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseDue parses a task due cell. Layouts without an explicit zone are
// interpreted in local time, matching how the rows were written.
func ParseDue(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("due timestamp is empty")
	}

	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized due timestamp format: %q", value)
}

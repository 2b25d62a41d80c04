package common

import (
	"errors"
	"strings"
	"time"

	mathUtil "github.com/pkg/math"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate accepts RFC3339 or a zone-less date time which is interpreted in
// the local timezone.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t.In(time.Local), nil
		}
	}

	return time.Time{}, errors.New("invalid date format")
}

// Clamp normalizes offset/limit query parameters.
func Clamp(offset, limit, defaultLimit, maxLimit int) (int, int) {
	offset = mathUtil.MaxInt(offset, 0)

	if limit <= 0 {
		limit = defaultLimit
	}

	if maxLimit > 0 {
		limit = mathUtil.MinInt(limit, maxLimit)
	}

	return offset, limit
}

package service

import (
	"fmt"
	"time"
)

// normalizePhotos shapes an arbitrary JSON value into a list of photo
// references: a bare string becomes a one-element list, list elements
// that are not strings are coerced to their string form, and anything
// else collapses to an empty list.
func normalizePhotos(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case string:
		return []string{val}
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else if item != nil {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	default:
		return []string{}
	}
}

// normalizeSignature coerces the signature payload to a string.
func normalizeSignature(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// dateLayouts are the formats accepted for date-like string fields,
// tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a date-like string into a timestamp. An empty
// string is not a date and yields nil without error.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

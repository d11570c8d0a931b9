package values

import (
	"strconv"
	"time"

	"github.com/reoring/lasso"
)

// Layouts a Timestamp can be rendered with.
const (
	LayoutISO8601     = time.RFC3339Nano
	LayoutRFC2822     = "Mon, 02 Jan 2006 15:04:05 -0700"
	LayoutRFC2822Date = "Mon, 02 Jan 2006"
	LayoutISODate     = time.DateOnly
)

// parseLayouts are tried in order when validating strings. Layouts without a
// zone parse as UTC.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	LayoutRFC2822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	time.RFC1123,
	"02 Jan 2006 15:04:05 -0700",
	LayoutRFC2822Date,
	time.DateOnly,
}

// Timestamp is an instant together with the layout it is rendered with. The
// zero value, optionally with Layout set, is a capability shape whose results
// carry that layout.
type Timestamp struct {
	time.Time
	Layout string
}

// Now returns the current UTC time truncated to the second.
func Now(layout string) Timestamp {
	return Timestamp{Time: time.Now().UTC().Truncate(time.Second), Layout: layout}
}

// Today returns the start of the current UTC day.
func Today(layout string) Timestamp {
	y, m, d := time.Now().UTC().Date()
	return Timestamp{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Layout: layout}
}

// ParseTimestamp parses s against the supported ISO 8601 and RFC 2822 forms.
func ParseTimestamp(s, layout string) (Timestamp, error) {
	var firstErr error
	for _, l := range parseLayouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return Timestamp{Time: t, Layout: layout}, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return Timestamp{}, firstErr
}

// Validate accepts a Timestamp unchanged, a time.Time or a string. New values
// take the receiver's Layout.
func (ts Timestamp) Validate(data any) (any, error) {
	switch v := data.(type) {
	case Timestamp:
		return v, nil
	case time.Time:
		return Timestamp{Time: v, Layout: ts.Layout}, nil
	case string:
		out, err := ParseTimestamp(v, ts.Layout)
		if err != nil {
			return nil, &lasso.Failure{Message: "invalid timestamp " + quote(v), Cause: err}
		}
		return out, nil
	}
	return nil, lasso.Failf("%v should be a timestamp", data)
}

func (ts Timestamp) String() string {
	layout := ts.Layout
	if layout == "" {
		layout = LayoutISO8601
	}
	return ts.Time.Format(layout)
}

// ToPrimitive formats the instant with the timestamp's layout.
func (ts Timestamp) ToPrimitive() any { return ts.String() }

// Equal reports whether both timestamps denote the same instant.
func (ts Timestamp) Equal(other Timestamp) bool { return ts.Time.Equal(other.Time) }

func quote(s string) string { return strconv.Quote(s) }

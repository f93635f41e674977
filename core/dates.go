package core

import "time"

// DateLayout is the wire format for validity dates, shared with the document
// management service.
const DateLayout = "2006-01-02"

// openEnd is the sentinel used when a record carries no expire date.
var openEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// ValidityWindow is the [Effective, Expire] interval during which a legal
// text is in force.
type ValidityWindow struct {
	Effective time.Time
	Expire    time.Time
}

// Window builds a ValidityWindow from wire-format date strings. A missing or
// malformed effective date opens the window at the beginning of time; a
// missing or malformed expire date leaves it open-ended. Malformed inputs are
// normalized rather than rejected so a bad date can never hide an otherwise
// valid record from retrieval.
func Window(effective, expire string) ValidityWindow {
	w := ValidityWindow{Expire: openEnd}
	if t, err := time.Parse(DateLayout, effective); err == nil {
		w.Effective = t
	}
	if t, err := time.Parse(DateLayout, expire); err == nil {
		w.Expire = t
	}
	return w
}

// Contains reports whether ref falls within the window, boundaries included.
func (w ValidityWindow) Contains(ref time.Time) bool {
	day := ref.Truncate(24 * time.Hour)
	return !day.Before(w.Effective) && !day.After(w.Expire)
}

// ParseDate parses a wire-format date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

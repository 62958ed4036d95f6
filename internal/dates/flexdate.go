package dates

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FlexDate is a nullable calendar date that absorbs the mixed representations
// invoice sources produce: native timestamps, ISO strings, day-first strings,
// or nothing at all. Absence means "unknown", and unknown is a valid state --
// downstream calculations exclude the field rather than failing.
type FlexDate struct {
	t     time.Time
	valid bool
}

// NewFlexDate builds a known date from a time value.
func NewFlexDate(t time.Time) FlexDate {
	return FlexDate{t: Normalize(t), valid: true}
}

// FlexDateFromString parses a date string; unparseable input yields the
// unknown state.
func FlexDateFromString(s string) FlexDate {
	if t, ok := ParseString(s); ok {
		return FlexDate{t: t, valid: true}
	}
	return FlexDate{}
}

// Valid reports whether the date is known.
func (d FlexDate) Valid() bool { return d.valid }

// Time returns the canonical date and whether it is known.
func (d FlexDate) Time() (time.Time, bool) { return d.t, d.valid }

// String renders the date as YYYY-MM-DD, or "" when unknown.
func (d FlexDate) String() string {
	if !d.valid {
		return ""
	}
	return d.t.Format("2006-01-02")
}

// Scan implements sql.Scanner. NULLs and unparseable values scan to the
// unknown state without raising.
func (d *FlexDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = FlexDate{}
	case time.Time:
		*d = NewFlexDate(v)
	case string:
		*d = FlexDateFromString(v)
	case []byte:
		*d = FlexDateFromString(string(v))
	default:
		*d = FlexDate{}
	}
	return nil
}

// Value implements driver.Valuer.
func (d FlexDate) Value() (driver.Value, error) {
	if !d.valid {
		return nil, nil
	}
	return d.t, nil
}

// MarshalJSON renders "YYYY-MM-DD" or null.
func (d FlexDate) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a date string or null; unparseable strings become
// the unknown state.
func (d *FlexDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = FlexDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flexdate: %w", err)
	}
	*d = FlexDateFromString(s)
	return nil
}

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const DateLayout = "2006-01-02"

// Date is a calendar day without time of day or zone. It is stored as
// midnight UTC so that comparing and formatting never shifts the day.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar day of now in now's own location
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, m, d)
}

// ParseDate reads a YYYY-MM-DD date. Anything after the first ten characters
// (a time of day, a zone) is ignored so "2025-01-15T23:00:00-06:00" is still
// the 15th. Other spellings such as "Jan 12, 2025" go through dateparse.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)

	day := s
	if len(day) > len(DateLayout) {
		day = day[:len(DateLayout)]
	}
	if t, err := time.Parse(DateLayout, day); err == nil {
		return Date{t: t}, nil
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Date()), nil
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Compare returns -1, 0 or +1 like time.Time.Compare
func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

func (d Date) Format(layout string) string {
	return d.t.Format(layout)
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

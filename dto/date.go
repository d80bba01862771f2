package dto

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Date is a calendar date that is encoded as "YYYY-MM-DD".
// Decoding also accepts full RFC 3339 timestamps.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Date{}, fmt.Errorf("cannot parse date %q: expected YYYY-MM-DD", value)
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	value, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("cannot parse date %s: %w", data, err)
	}
	return d.UnmarshalText([]byte(value))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	date, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = date
	return nil
}

func datePointer(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	date := NewDate(*t)
	return &date
}

func timePointer(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

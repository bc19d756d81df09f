// Package date provides a day-granularity calendar date and the day-indexed
// series used by the P&L engine.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the ISO-8601 form dates are written in.
const Layout = "2006-01-02"

// lenient also accepts single digit months and days.
const lenient = "2006-1-2"

const secondsPerDay = 24 * 60 * 60

// epoch is the Unix day number of 0001-01-01.
var epoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay

// Date is a calendar day. It is stored as an ordinal so that dates compare
// and subtract as integers; the zero value is not a valid day.
type Date struct{ n int64 }

// New returns the Date of the given year, month and day. Out of range
// values are normalized the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return fromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func fromTime(t time.Time) Date { return Date{t.Unix()/secondsPerDay - epoch + 1} }

// time returns midnight UTC of that day.
func (d Date) time() time.Time { return time.Unix((d.n-1+epoch)*secondsPerDay, 0).UTC() }

func (d Date) Year() int             { return d.time().Year() }
func (d Date) Month() time.Month     { return d.time().Month() }
func (d Date) Day() int              { return d.time().Day() }
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d.n == 0 }

func (d Date) Before(x Date) bool { return d.n < x.n }
func (d Date) After(x Date) bool  { return d.n > x.n }

// Compare returns -1, 0 or +1 when d is before, equal to or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.n < x.n:
		return -1
	case d.n > x.n:
		return 1
	}
	return 0
}

// Add returns the day i days after d (before if i is negative).
func (d Date) Add(i int) Date { return Date{d.n + int64(i)} }

// Sub returns the number of days from x to d.
func (d Date) Sub(x Date) int { return int(d.n - x.n) }

// Today returns the current local day.
func Today() Date { return New(time.Now().Date()) }

func (d Date) String() string { return d.time().Format(Layout) }

// Parse reads a day like "2025-07-01". Single digit months and days are accepted.
func Parse(s string) (Date, error) {
	t, err := time.Parse(lenient, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", s, Layout, err)
	}
	return fromTime(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalText encodes d in Layout. It also makes Date usable as a JSON object key.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

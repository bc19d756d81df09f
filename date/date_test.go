package date

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestOrdinal(t *testing.T) {
	if !(Date{}).IsZero() {
		t.Error("Date{}.IsZero() = false, want true")
	}
	first := New(1, time.January, 1)
	if first.IsZero() {
		t.Error("New(1, January, 1).IsZero() = true, want false")
	}
	if got := first.String(); got != "0001-01-01" {
		t.Errorf("String() = %q, want 0001-01-01", got)
	}

	d := New(2025, time.July, 31)
	if got, want := d.time(), time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("time() = %v, want %v", got, want)
	}
	if d.Year() != 2025 || d.Month() != time.July || d.Day() != 31 || d.Weekday() != time.Thursday {
		t.Errorf("%s is %d %s %d, %s; want 2025 July 31, Thursday", d, d.Year(), d.Month(), d.Day(), d.Weekday())
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2024, time.February, 30), New(2024, time.March, 1); got != want {
		t.Errorf("New(2024, February, 30) = %s, want %s", got, want)
	}
	if got, want := New(2024, time.January, 0), New(2023, time.December, 31); got != want {
		t.Errorf("New(2024, January, 0) = %s, want %s", got, want)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.String() != "2025-07-01" {
		t.Errorf("Parse() = %s, want 2025-07-01", d)
	}

	if _, err := Parse("01/07/2025"); err == nil {
		t.Error("Parse(01/07/2025) error = nil, want an error")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustParse(tomorrow) did not panic")
		}
	}()
	MustParse("tomorrow")
}

func TestSubAndAdd(t *testing.T) {
	d := MustParse("2024-02-27")
	tests := []struct {
		name      string
		got, want Date
	}{
		{"leap day crossed", d.Add(3), MustParse("2024-03-01")},
		{"year crossed", MustParse("2024-01-01").Add(-1), MustParse("2023-12-31")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: Add() = %s, want %s", tt.name, tt.got, tt.want)
		}
	}

	if got := d.Add(3).Sub(d); got != 3 {
		t.Errorf("Sub() = %d, want 3", got)
	}
	if got := d.Sub(d.Add(3)); got != -3 {
		t.Errorf("Sub() = %d, want -3", got)
	}
	if got := MustParse("2025-01-01").Sub(MustParse("2024-01-01")); got != 366 {
		t.Errorf("Sub() over 2024 = %d, want 366", got)
	}
}

func TestCompare(t *testing.T) {
	a, b := MustParse("2024-01-01"), MustParse("2024-01-02")
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare() = %d, %d, %d, want -1, 1, 0", a.Compare(b), b.Compare(a), a.Compare(a))
	}
	if !a.Before(b) || !b.After(a) {
		t.Errorf("%s is not before %s", a, b)
	}
}

func TestJSON(t *testing.T) {
	m := map[Date]int{MustParse("2024-01-05"): 1}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(b) != `{"2024-01-05":1}` {
		t.Errorf("json.Marshal() = %s, want {\"2024-01-05\":1}", b)
	}

	var back map[Date]int
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(back, m) {
		t.Errorf("json.Unmarshal() = %v, want %v", back, m)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-1-5"`), &d); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if d != MustParse("2024-01-05") {
		t.Errorf("json.Unmarshal() = %s, want 2024-01-05", d)
	}
	if err := json.Unmarshal([]byte(`5`), &d); err == nil {
		t.Error("json.Unmarshal(5) error = nil, want an error")
	}
}

package domain

import (
	"fmt"
	"time"
)

// Weekday is a day-of-week bucket where Monday is 0 and Sunday is 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek is the number of weekday buckets every aggregate carries.
const DaysInWeek = 7

// weekdayLabels are the short Korean day names used by the box-office export.
var weekdayLabels = [DaysInWeek]string{"월", "화", "수", "목", "금", "토", "일"}

var weekdayNames = [DaysInWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// AllWeekdays returns the seven buckets in display order, Monday first.
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// WeekdayLabels returns the Korean short labels in Monday-first order.
func WeekdayLabels() []string {
	labels := make([]string, DaysInWeek)
	copy(labels, weekdayLabels[:])
	return labels
}

// WeekdayOf maps a calendar date onto its Monday-first bucket.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % DaysInWeek)
}

// ParseWeekdayLabel resolves a Korean short label back to its bucket.
func ParseWeekdayLabel(label string) (Weekday, error) {
	for i, l := range weekdayLabels {
		if l == label {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday label %q", label)
}

// Valid reports whether w is one of the seven buckets.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// Label returns the Korean short name ("월" … "일").
func (w Weekday) Label() string {
	if !w.Valid() {
		return ""
	}
	return weekdayLabels[w]
}

// String returns the English short name ("Mon" … "Sun").
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// MarshalText encodes the weekday as its Korean label.
func (w Weekday) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(w))
	}
	return []byte(w.Label()), nil
}

// UnmarshalText accepts the Korean label.
func (w *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekdayLabel(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

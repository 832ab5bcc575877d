package domain

import (
	"fmt"
	"time"
)

// DateOf отбрасывает время и возвращает дату как полночь UTC.
// Все даты бронирований и расписаний хранятся в таком виде.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return t, nil
}

// DatesBetween возвращает все даты отрезка [from, to] включительно
func DatesBetween(from, to time.Time) []time.Time {
	from, to = DateOf(from), DateOf(to)
	dates := make([]time.Time, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

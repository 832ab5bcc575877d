package domain

import "time"

// TimeSlot свободное окно для бронирования. Не хранится, вычисляется на каждый запрос.
type TimeSlot struct {
	Date  time.Time
	Range TimeRange
}

// StartsAt момент начала слота в заданной локации
func (s TimeSlot) StartsAt(loc *time.Location) time.Time {
	return s.Range.Start.OnDate(s.Date, loc)
}

// Package timecmp сравнивает моменты времени с учётом календарных дней.
// Календарь всегда берётся из локации "now", то есть из часового пояса пользователя.
package timecmp

import "time"

const dayKeyLayout = "2006-01-02"

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay - начало следующего дня, граница не включается
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func IsBefore(a, b time.Time) bool {
	return a.Before(b)
}

// IsBeforeMinute сравнивает строго, с точностью до минуты
func IsBeforeMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Before(b.Truncate(time.Minute))
}

// IsSameDay - a и b попадают в один календарный день в локации b
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween возвращает разницу календарных дней to - from в локации from.
// Время суток не учитывается: сегодня всегда 0
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.In(from.Location()).Date()

	// полдень в UTC не зависит от перевода часов
	f := time.Date(fy, fm, fd, 12, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 12, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}

func HoursBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Hour)
}

func MinutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}

func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dayKeyLayout, key, loc)
}

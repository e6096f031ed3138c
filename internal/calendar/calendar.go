// Package calendar раскладывает дедлайны по дням месячной сетки.
package calendar

import (
	"cmp"
	"deadlineMate/internal/classify"
	"deadlineMate/internal/timecmp"
	"slices"
	"time"
)

type Bucket struct {
	Key       string
	Date      time.Time
	InMonth   bool
	Deadlines []classify.Annotated
}

// Range возвращает окно [from, to) видимой сетки месяца: от воскресенья
// на или до первого числа до субботы на или после последнего, включительно
func Range(month time.Time) (time.Time, time.Time) {
	y, m, _ := month.Date()
	loc := month.Location()

	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)

	from := first.AddDate(0, 0, -int(first.Weekday()))
	to := last.AddDate(0, 0, int(time.Saturday-last.Weekday())+1)
	return from, to
}

func Grid(month time.Time) []time.Time {
	from, to := Range(month)

	days := []time.Time{}
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Bucketize возвращает по одной корзине на каждый день сетки, в порядке дней.
// Дедлайны вне сетки отбрасываются
func Bucketize(items []classify.Annotated, month time.Time) []Bucket {
	days := Grid(month)
	loc := month.Location()

	buckets := make([]Bucket, len(days))
	index := make(map[string]int, len(days))
	for i, day := range days {
		key := timecmp.DayKey(day)
		buckets[i] = Bucket{
			Key:       key,
			Date:      day,
			InMonth:   day.Month() == month.Month(),
			Deadlines: []classify.Annotated{},
		}
		index[key] = i
	}

	for _, item := range items {
		key := timecmp.DayKey(item.Deadline.DueAt.In(loc))
		i, ok := index[key]
		if !ok {
			continue
		}
		buckets[i].Deadlines = append(buckets[i].Deadlines, item)
	}

	for i := range buckets {
		SortByTime(buckets[i].Deadlines)
	}
	return buckets
}

// SortByTime сортирует по времени срока, при равенстве - сначала более высокий приоритет
func SortByTime(items []classify.Annotated) {
	slices.SortStableFunc(items, func(a, b classify.Annotated) int {
		if c := a.Deadline.DueAt.Compare(b.Deadline.DueAt); c != 0 {
			return c
		}
		return cmp.Compare(b.Deadline.Priority.Rank(), a.Deadline.Priority.Rank())
	})
}

// Package notification отбирает дедлайны для баннера на дашборде и
// хранит скрытые пользователем уведомления в пределах одного календарного дня.
package notification

import (
	"deadlineMate/internal/calendar"
	"deadlineMate/internal/classify"
	"deadlineMate/internal/models/deadline"
	"time"
)

const DefaultLimit = 3

// Result: Items ограничены limit, счётчики Overdue/Today/Tomorrow считаются по всем подходящим
type Result struct {
	Items     []classify.Annotated
	Remaining int
	Total     int
	Overdue   int
	Today     int
	Tomorrow  int
}

// Eligible: не выполнен, не скрыт сегодня, и при этом просрочен, или срок сегодня,
// или высокий приоритет со сроком завтра
func Eligible(item classify.Annotated, dismissed Set) bool {
	if item.EffectiveStatus == deadline.StatusCompleted {
		return false
	}
	if dismissed.Has(item.Deadline.UUID) {
		return false
	}

	return item.IsOverdue ||
		item.DaysUntilDue == 0 ||
		(item.Deadline.Priority == deadline.PriorityHigh && item.DaysUntilDue == 1)
}

// Select возвращает не больше limit уведомлений по возрастанию срока, остаток считается в Remaining.
// limit <= 0 означает DefaultLimit
func Select(items []classify.Annotated, dismissed Set, now time.Time, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	selected := []classify.Annotated{}
	for _, item := range items {
		if Eligible(item, dismissed) {
			selected = append(selected, item)
		}
	}

	calendar.SortByTime(selected)

	res := Result{Total: len(selected)}
	for _, item := range selected {
		switch {
		case item.IsOverdue:
			res.Overdue++
		case item.DaysUntilDue == 0:
			res.Today++
		default:
			res.Tomorrow++
		}
	}

	if len(selected) > limit {
		res.Items = selected[:limit]
		res.Remaining = len(selected) - limit
		return res
	}
	res.Items = selected
	return res
}

// Package classify выводит из сохранённого дедлайна производные факты для отображения:
// эффективный статус, признаки "сегодня"/"просрочено" и текст бейджа.
// Все функции чистые, текущее время передаётся явно.
package classify

import (
	"deadlineMate/internal/models/deadline"
	"deadlineMate/internal/timecmp"
	"time"
)

// DeriveStatus - единственное место, где считается эффективный статус.
// completed не перекрывается никогда, остальные становятся overdue, если срок уже прошёл
func DeriveStatus(stored deadline.Status, dueAt, now time.Time) deadline.Status {
	if stored == deadline.StatusCompleted {
		return deadline.StatusCompleted
	}
	if timecmp.IsBeforeMinute(dueAt, now) {
		return deadline.StatusOverdue
	}
	// сохранённый overdue пересчитывается так же, как pending
	if stored == deadline.StatusOverdue || stored == "" {
		return deadline.StatusPending
	}
	return stored
}

type Annotated struct {
	Deadline        deadline.Deadline
	EffectiveStatus deadline.Status
	IsToday         bool
	IsOverdue       bool
	DaysUntilDue    int
}

// Annotate копирует дедлайн, исходная запись не меняется
func Annotate(d *deadline.Deadline, now time.Time) Annotated {
	status := DeriveStatus(d.Status, d.DueAt, now)
	return Annotated{
		Deadline:        *d,
		EffectiveStatus: status,
		IsToday:         timecmp.IsSameDay(d.DueAt, now),
		IsOverdue:       status == deadline.StatusOverdue,
		DaysUntilDue:    timecmp.DaysBetween(now, d.DueAt),
	}
}

func AnnotateAll(deadlines []*deadline.Deadline, now time.Time) []Annotated {
	res := make([]Annotated, 0, len(deadlines))
	for _, d := range deadlines {
		res = append(res, Annotate(d, now))
	}
	return res
}

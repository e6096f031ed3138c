package classify

import (
	"deadlineMate/internal/models/deadline"
	"deadlineMate/internal/timecmp"
	"fmt"
	"time"
)

type Tier string

const TierSuccess Tier = "success"
const TierCritical Tier = "critical"
const TierUrgent Tier = "urgent"
const TierWarning Tier = "warning"
const TierNeutral Tier = "neutral"

const dateLabelLayout = "Jan 2"

type Badge struct {
	Text string `json:"text"`
	Tier Tier   `json:"tier"`
}

// FormatBadge применяет правила по порядку, срабатывает первое подходящее:
// выполнено, просрочено, сегодня, в ближайшую неделю, иначе дата
func FormatBadge(a Annotated, now time.Time) Badge {
	due := a.Deadline.DueAt

	switch {
	case a.EffectiveStatus == deadline.StatusCompleted:
		return Badge{Text: "Completed", Tier: TierSuccess}

	case a.EffectiveStatus == deadline.StatusOverdue:
		late := now.Sub(due)
		if late >= 24*time.Hour {
			return Badge{Text: fmt.Sprintf("%dd overdue", int(late/(24*time.Hour))), Tier: TierCritical}
		}
		hours := timecmp.HoursBetween(due, now)
		// меньше часа просрочки сегодня - "Due now" с уровнем urgent, как у срока сегодня; critical начинается с часа
		if hours == 0 && a.IsToday {
			return Badge{Text: "Due now", Tier: TierUrgent}
		}
		return Badge{Text: fmt.Sprintf("%dh overdue", hours), Tier: TierCritical}

	case a.IsToday:
		if !due.After(now) {
			return Badge{Text: "Due now", Tier: TierUrgent}
		}
		return Badge{Text: fmt.Sprintf("%dh left", timecmp.HoursBetween(now, due)), Tier: TierUrgent}

	case a.DaysUntilDue > 0 && a.DaysUntilDue <= 7:
		if a.DaysUntilDue == 1 {
			return Badge{Text: "Tomorrow", Tier: TierWarning}
		}
		return Badge{Text: fmt.Sprintf("%d days", a.DaysUntilDue), Tier: TierWarning}
	}

	return Badge{Text: due.In(now.Location()).Format(dateLabelLayout), Tier: TierNeutral}
}

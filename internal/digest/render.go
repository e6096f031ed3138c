package digest

import (
	"deadlineMate/internal/classify"
	"deadlineMate/internal/handlers/dto"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const agendaDays = 7

var (
	CriticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // красный
			Bold(true)

	UrgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")). // оранжевый
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	NeutralStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)
)

func tierStyle(tier classify.Tier) lipgloss.Style {
	switch tier {
	case classify.TierCritical:
		return CriticalStyle
	case classify.TierUrgent:
		return UrgentStyle
	case classify.TierWarning:
		return WarningStyle
	case classify.TierSuccess:
		return SuccessStyle
	}
	return NeutralStyle
}

type Renderer struct {
	colored bool
}

func NewRenderer(colored bool) *Renderer {
	return &Renderer{colored: colored}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.colored {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) badge(b classify.Badge) string {
	return r.style(tierStyle(b.Tier), "["+b.Text+"]")
}

// Banner - строки баннера уведомлений и счётчик "+N more"
func (r *Renderer) Banner(w io.Writer, banner dto.NotificationsResponse) {
	fmt.Fprintln(w, r.style(HeaderStyle, "Notifications"))

	if len(banner.Items) == 0 {
		fmt.Fprintln(w, "  "+r.style(SuccessStyle, "All clear"))
		return
	}

	for _, item := range banner.Items {
		fmt.Fprintf(w, "  %s %s\n", r.badge(item.Badge), item.Title)
	}
	if banner.Remaining > 0 {
		fmt.Fprintf(w, "  %s\n", r.style(NeutralStyle, fmt.Sprintf("+%d more", banner.Remaining)))
	}
}

// Agenda - невыполненные дедлайны на ближайшие 7 дней, сгруппированные по дням
func (r *Renderer) Agenda(w io.Writer, dashboard dto.DashboardResponse) {
	fmt.Fprintln(w, r.style(HeaderStyle, "This week"))

	byDay := make([][]dto.DeadlineResponse, agendaDays)
	for _, d := range dashboard.Deadlines {
		if d.IsOverdue || d.EffectiveStatus == "completed" {
			continue
		}
		if d.DaysUntilDue < 0 || d.DaysUntilDue >= agendaDays {
			continue
		}
		byDay[d.DaysUntilDue] = append(byDay[d.DaysUntilDue], d)
	}

	empty := true
	for offset, items := range byDay {
		if len(items) == 0 {
			continue
		}
		empty = false

		day := dashboard.Now.AddDate(0, 0, offset)
		fmt.Fprintf(w, "  %s\n", r.style(NeutralStyle, dayLabel(offset, day)))
		for _, d := range items {
			line := fmt.Sprintf("    %s %s %s", d.DueAt.In(dashboard.Now.Location()).Format("15:04"), r.badge(d.Badge), d.Title)
			if d.Category != "" {
				line += r.style(NeutralStyle, " #"+d.Category)
			}
			fmt.Fprintln(w, line)
		}
	}

	if empty {
		fmt.Fprintln(w, "  "+r.style(NeutralStyle, "Nothing due"))
	}
}

func dayLabel(offset int, day time.Time) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	return strings.Join([]string{day.Format("Mon"), day.Format("Jan 2")}, ", ")
}

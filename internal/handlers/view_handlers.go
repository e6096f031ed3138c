package handlers

import (
	"deadlineMate/internal/handlers/dto"
	"deadlineMate/internal/logger"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const monthLayout = "2006-01"

func (h *DeadlineHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.DeadlineService.Dashboard(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "dashboard")
		return
	}

	responseWithBody(w, http.StatusOK, dto.DashboardResponse{
		Now:       snap.Now,
		Deadlines: dto.FromAnnotatedList(snap.Items, snap.Now),
	})
}

// Calendar: ?month=YYYY-MM, без параметра - текущий месяц
func (h *DeadlineHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	month := h.DeadlineService.Now()

	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.ParseInLocation(monthLayout, raw, h.DeadlineService.Location())
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "month"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "month должен быть в формате YYYY-MM")
			return
		}
		month = parsed
	}

	view, err := h.DeadlineService.Calendar(r.Context(), month)
	if err != nil {
		handleServiceError(w, r, err, "calendar")
		return
	}

	responseWithBody(w, http.StatusOK, dto.CalendarResponse{
		Now:   view.Now,
		Month: view.Month.Format(monthLayout),
		Days:  dto.FromBuckets(view.Buckets, view.Now),
	})
}

func (h *DeadlineHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	view, err := h.DeadlineService.Notifications(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "notifications")
		return
	}

	responseWithBody(w, http.StatusOK, dto.NotificationsResponse{
		Now:       view.Now,
		Items:     dto.FromAnnotatedList(view.Items, view.Now),
		Remaining: view.Remaining,
		Total:     view.Total,
	})
}

func (h *DeadlineHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.DeadlineService.Dismiss(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "dismiss_notification")
		return
	}

	responseWithJSON(w, http.StatusNoContent)
}

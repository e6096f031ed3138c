package handlers

import (
	"deadlineMate/internal/handlers/dto"
	"deadlineMate/internal/logger"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const serviceName = "deadline-mate"

type DeadlineHandler struct {
	DeadlineService Service
}

func NewDeadlineHandler(deadlineService Service) *DeadlineHandler {
	return &DeadlineHandler{
		DeadlineService: deadlineService,
	}
}

func (h *DeadlineHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.DeadlineService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
	)
}

func (h *DeadlineHandler) ListDeadlines(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	page, limit, ok := parsePage(w, r)
	if !ok {
		return
	}

	deadlines, err := h.DeadlineService.ListDeadlines(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, r, err, "list_deadlines")
		return
	}

	logger.Info("HTTP_OUT: Дедлайны получены",
		zap.Int("count", len(deadlines)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("deadlines", dto.FromDeadlineList(deadlines, h.DeadlineService.Now())),
		toPayload("page", page),
		toPayload("limit", limit),
	)
}

func (h *DeadlineHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := parsePage(w, r)
	if !ok {
		return
	}

	deadlines, err := h.DeadlineService.ListDeleted(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, r, err, "list_deleted")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("deadlines", dto.FromDeadlineList(deadlines, h.DeadlineService.Now())),
		toPayload("page", page),
		toPayload("limit", limit),
	)
}

func (h *DeadlineHandler) PostDeadline(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	created, err := h.DeadlineService.CreateDeadline(r.Context(),
		request.Title, request.Description, request.Category, request.Priority, request.DueAt)
	if err != nil {
		handleServiceError(w, r, err, "create_deadline")
		return
	}

	logger.Info("HTTP_OUT: Дедлайн создан",
		zap.String("deadline_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromDeadline(created, h.DeadlineService.Now()))
}

func (h *DeadlineHandler) GetDeadline(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.DeadlineService.GetDeadline(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_deadline")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromDeadline(found, h.DeadlineService.Now()))
}

func (h *DeadlineHandler) UpdateDeadline(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.UpdateDeadlineRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	updated, err := h.DeadlineService.UpdateDeadline(r.Context(), id, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "update_deadline")
		return
	}

	logger.Info("HTTP_OUT: Дедлайн обновлён",
		zap.String("deadline_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromDeadline(updated, h.DeadlineService.Now()))
}

func (h *DeadlineHandler) CompleteDeadline(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	completed, err := h.DeadlineService.CompleteDeadline(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "complete_deadline")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromDeadline(completed, h.DeadlineService.Now()))
}

func (h *DeadlineHandler) DeleteDeadline(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.DeadlineService.DeleteDeadline(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_deadline")
		return
	}

	logger.Info("HTTP_OUT: Дедлайн удалён",
		zap.String("deadline_id", id.String()),
		zap.Int("http_status", http.StatusNoContent))

	responseWithJSON(w, http.StatusNoContent)
}

func (h *DeadlineHandler) RestoreDeadline(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	restored, err := h.DeadlineService.RestoreDeadline(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "restore_deadline")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromDeadline(restored, h.DeadlineService.Now()))
}

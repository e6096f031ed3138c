package handlers_test

import (
	"bytes"
	"context"
	"deadlineMate/internal/calendar"
	"deadlineMate/internal/classify"
	"deadlineMate/internal/handlers"
	"deadlineMate/internal/handlers/dto"
	"deadlineMate/internal/models/deadline"
	"deadlineMate/internal/notification"
	"deadlineMate/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 15 марта 2024, 12:00 UTC
var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// MockDeadlineService - мок сервиса
type MockDeadlineService struct {
	mock.Mock
}

func (m *MockDeadlineService) Now() time.Time {
	return fixedNow
}

func (m *MockDeadlineService) Location() *time.Location {
	return time.UTC
}

func (m *MockDeadlineService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeadlineService) CreateDeadline(ctx context.Context, title, description, category string, priority deadline.Priority, dueAt time.Time) (*deadline.Deadline, error) {
	args := m.Called(ctx, title, description, category, priority, dueAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deadline.Deadline), args.Error(1)
}

func (m *MockDeadlineService) GetDeadline(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deadline.Deadline), args.Error(1)
}

func (m *MockDeadlineService) ListDeadlines(ctx context.Context, page, limit int) ([]*deadline.Deadline, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deadline.Deadline), args.Error(1)
}

func (m *MockDeadlineService) ListDeleted(ctx context.Context, page, limit int) ([]*deadline.Deadline, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deadline.Deadline), args.Error(1)
}

func (m *MockDeadlineService) UpdateDeadline(ctx context.Context, id uuid.UUID, options ...deadline.Option) (*deadline.Deadline, error) {
	args := m.Called(ctx, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deadline.Deadline), args.Error(1)
}

func (m *MockDeadlineService) CompleteDeadline(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deadline.Deadline), args.Error(1)
}

func (m *MockDeadlineService) DeleteDeadline(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeadlineService) RestoreDeadline(ctx context.Context, id uuid.UUID) (*deadline.Deadline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deadline.Deadline), args.Error(1)
}

func (m *MockDeadlineService) Dashboard(ctx context.Context) (service.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.Snapshot), args.Error(1)
}

func (m *MockDeadlineService) Calendar(ctx context.Context, month time.Time) (service.CalendarView, error) {
	args := m.Called(ctx, month)
	return args.Get(0).(service.CalendarView), args.Error(1)
}

func (m *MockDeadlineService) Notifications(ctx context.Context) (service.NotificationsView, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.NotificationsView), args.Error(1)
}

func (m *MockDeadlineService) Dismiss(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.Service = (*MockDeadlineService)(nil)

func newRouter(svc handlers.Service) http.Handler {
	r := chi.NewRouter()
	handlers.NewDeadlineHandler(svc).Routes(r)
	return r
}

func serve(svc handlers.Service, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)
	return w
}

// TestDeadlineHandler_HealthCheck тестирует HealthCheck
func TestDeadlineHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockDeadlineService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockDeadlineService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockDeadlineService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("service unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDeadlineService)
			tt.setupMock(mockService)

			w := serve(mockService, "GET", "/health", "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), "deadline-mate")
			mockService.AssertExpectations(t)
		})
	}
}

// TestDeadlineHandler_PostDeadline тестирует создание дедлайна
func TestDeadlineHandler_PostDeadline(t *testing.T) {
	id := uuid.New()
	dueAt := fixedNow.Add(3 * time.Hour)

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockDeadlineService)
		expectedStatus int
	}{
		{
			name: "success - create deadline",
			requestBody: fmt.Sprintf(`{
				"title": "Курсовая",
				"description": "глава 2",
				"priority": "high",
				"due_at": "%s"
			}`, dueAt.Format(time.RFC3339)),
			contentType: "application/json; charset=utf-8",
			setupMock: func(m *MockDeadlineService) {
				m.On("CreateDeadline", mock.Anything, "Курсовая", "глава 2", "", deadline.PriorityHigh, mock.Anything).
					Return(&deadline.Deadline{
						UUID:     id,
						Title:    "Курсовая",
						Status:   deadline.StatusPending,
						Priority: deadline.PriorityHigh,
						DueAt:    dueAt,
						Flag:     deadline.FlagActive,
						Version:  1,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockDeadlineService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockDeadlineService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - validation",
			requestBody: `{"title": ""}`,
			contentType: "application/json",
			setupMock: func(m *MockDeadlineService) {
				m.On("CreateDeadline", mock.Anything, "", "", "", deadline.Priority(""), time.Time{}).
					Return(nil, service.NewValidationError("title", "название не может быть пустым"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - service error",
			requestBody: fmt.Sprintf(`{"title": "Курсовая", "due_at": "%s"}`, dueAt.Format(time.RFC3339)),
			contentType: "application/json",
			setupMock: func(m *MockDeadlineService) {
				m.On("CreateDeadline", mock.Anything, "Курсовая", "", "", deadline.Priority(""), mock.Anything).
					Return(nil, errors.New("service error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDeadlineService)
			tt.setupMock(mockService)

			w := serve(mockService, "POST", "/deadlines", tt.contentType, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				var response dto.DeadlineResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				require.NoError(t, err)
				assert.Equal(t, id, response.UUID)
				assert.Equal(t, "pending", response.EffectiveStatus)
				assert.True(t, response.IsToday)
				assert.Equal(t, classify.Badge{Text: "3h left", Tier: classify.TierUrgent}, response.Badge)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// TestDeadlineHandler_GetDeadline тестирует получение дедлайна по ID
func TestDeadlineHandler_GetDeadline(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockDeadlineService)
		expectedStatus int
	}{
		{
			name: "success - overdue deadline is reported as overdue",
			id:   id.String(),
			setupMock: func(m *MockDeadlineService) {
				m.On("GetDeadline", mock.Anything, id).
					Return(&deadline.Deadline{
						UUID:     id,
						Title:    "Отчёт",
						Status:   deadline.StatusPending,
						Priority: deadline.PriorityMedium,
						DueAt:    fixedNow.Add(-50 * time.Hour),
						Flag:     deadline.FlagActive,
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid UUID",
			id:             "invalid-uuid",
			setupMock:      func(m *MockDeadlineService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - nil UUID",
			id:             uuid.Nil.String(),
			setupMock:      func(m *MockDeadlineService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error - not found",
			id:   id.String(),
			setupMock: func(m *MockDeadlineService) {
				m.On("GetDeadline", mock.Anything, id).
					Return(nil, service.NewNotFound("Дедлайн", id.String()))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "error - internal",
			id:   id.String(),
			setupMock: func(m *MockDeadlineService) {
				m.On("GetDeadline", mock.Anything, id).
					Return(nil, errors.New("internal error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDeadlineService)
			tt.setupMock(mockService)

			handler := handlers.NewDeadlineHandler(mockService)

			req := httptest.NewRequest("GET", "/deadlines/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.GetDeadline(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response dto.DeadlineResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				require.NoError(t, err)
				assert.Equal(t, "pending", response.Status)
				assert.Equal(t, "overdue", response.EffectiveStatus)
				assert.True(t, response.IsOverdue)
				assert.Equal(t, "2d overdue", response.Badge.Text)
				assert.Equal(t, classify.TierCritical, response.Badge.Tier)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// TestDeadlineHandler_UpdateDeadline тестирует обновление дедлайна
func TestDeadlineHandler_UpdateDeadline(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockDeadlineService)
		expectedStatus int
	}{
		{
			name:        "success - partial update",
			requestBody: `{"title": "Новое название", "status": "in_progress"}`,
			contentType: "application/json",
			setupMock: func(m *MockDeadlineService) {
				m.On("UpdateDeadline", mock.Anything, id, mock.MatchedBy(func(opts []deadline.Option) bool {
					return len(opts) == 2
				})).Return(&deadline.Deadline{
					UUID:   id,
					Title:  "Новое название",
					Status: deadline.StatusInProgress,
					DueAt:  fixedNow.Add(10 * 24 * time.Hour),
					Flag:   deadline.FlagActive,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockDeadlineService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:        "error - version conflict",
			requestBody: `{"title": "x"}`,
			contentType: "application/json",
			setupMock: func(m *MockDeadlineService) {
				m.On("UpdateDeadline", mock.Anything, id, mock.Anything).
					Return(nil, service.NewBusinessError(service.CodeVersionConflict, "конфликт"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "error - deleted",
			requestBody: `{"title": "x"}`,
			contentType: "application/json",
			setupMock: func(m *MockDeadlineService) {
				m.On("UpdateDeadline", mock.Anything, id, mock.Anything).
					Return(nil, service.NewBusinessError(service.CodeDeadlineDeleted, "удалён"))
			},
			expectedStatus: http.StatusGone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDeadlineService)
			tt.setupMock(mockService)

			w := serve(mockService, "PUT", "/deadlines/"+id.String(), tt.contentType, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response dto.DeadlineResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, "Mar 25", response.Badge.Text)
				assert.Equal(t, classify.TierNeutral, response.Badge.Tier)
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestDeadlineHandler_Lifecycle тестирует выполнение, удаление и восстановление
func TestDeadlineHandler_Lifecycle(t *testing.T) {
	id := uuid.New()
	stored := &deadline.Deadline{UUID: id, Title: "Эссе", DueAt: fixedNow.Add(-time.Hour), Flag: deadline.FlagActive}

	t.Run("complete", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		done := *stored
		done.Status = deadline.StatusCompleted
		mockService.On("CompleteDeadline", mock.Anything, id).Return(&done, nil)

		w := serve(mockService, "POST", "/deadlines/"+id.String()+"/complete", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		var response dto.DeadlineResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "completed", response.EffectiveStatus)
		assert.False(t, response.IsOverdue)
		assert.Equal(t, classify.Badge{Text: "Completed", Tier: classify.TierSuccess}, response.Badge)
	})

	t.Run("complete twice", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		mockService.On("CompleteDeadline", mock.Anything, id).
			Return(nil, service.NewBusinessError(service.CodeAlreadyCompleted, "уже выполнен"))

		w := serve(mockService, "POST", "/deadlines/"+id.String()+"/complete", "", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), service.CodeAlreadyCompleted)
	})

	t.Run("delete", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		mockService.On("DeleteDeadline", mock.Anything, id).Return(nil)

		w := serve(mockService, "DELETE", "/deadlines/"+id.String(), "", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("restore", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		mockService.On("RestoreDeadline", mock.Anything, id).Return(stored, nil)

		w := serve(mockService, "POST", "/deadlines/"+id.String()+"/restore", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

// TestDeadlineHandler_ListDeadlines тестирует пагинацию списка
func TestDeadlineHandler_ListDeadlines(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockDeadlineService)
		expectedStatus int
	}{
		{
			name:  "defaults",
			query: "",
			setupMock: func(m *MockDeadlineService) {
				m.On("ListDeadlines", mock.Anything, 1, 20).Return([]*deadline.Deadline{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "explicit page",
			query: "?page=2&limit=5",
			setupMock: func(m *MockDeadlineService) {
				m.On("ListDeadlines", mock.Anything, 2, 5).Return([]*deadline.Deadline{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not a number",
			query:          "?limit=ten",
			setupMock:      func(m *MockDeadlineService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "out of range",
			query: "?limit=1000",
			setupMock: func(m *MockDeadlineService) {
				m.On("ListDeadlines", mock.Anything, 1, 1000).
					Return(nil, service.NewValidationError("limit", "должно быть от 1 до 100"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDeadlineService)
			tt.setupMock(mockService)

			w := serve(mockService, "GET", "/deadlines"+tt.query, "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestDeadlineHandler_Dashboard тестирует дашборд с бейджами
func TestDeadlineHandler_Dashboard(t *testing.T) {
	mockService := new(MockDeadlineService)
	items := classify.AnnotateAll([]*deadline.Deadline{
		{UUID: uuid.New(), Title: "A", Status: deadline.StatusPending, DueAt: fixedNow.Add(-30 * time.Minute)},
		{UUID: uuid.New(), Title: "B", Status: deadline.StatusPending, DueAt: fixedNow.Add(24 * time.Hour)},
		{UUID: uuid.New(), Title: "C", Status: deadline.StatusPending, DueAt: fixedNow.Add(5 * 24 * time.Hour)},
	}, fixedNow)
	mockService.On("Dashboard", mock.Anything).Return(service.Snapshot{Now: fixedNow, Items: items}, nil)

	w := serve(mockService, "GET", "/dashboard", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.DashboardResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Deadlines, 3)
	assert.Equal(t, classify.Badge{Text: "Due now", Tier: classify.TierUrgent}, response.Deadlines[0].Badge)
	assert.Equal(t, classify.Badge{Text: "Tomorrow", Tier: classify.TierWarning}, response.Deadlines[1].Badge)
	assert.Equal(t, classify.Badge{Text: "5 days", Tier: classify.TierWarning}, response.Deadlines[2].Badge)
}

// TestDeadlineHandler_Calendar тестирует разбор параметра month
func TestDeadlineHandler_Calendar(t *testing.T) {
	march := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("explicit month", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		buckets := calendar.Bucketize(nil, march)
		mockService.On("Calendar", mock.Anything, march).
			Return(service.CalendarView{Now: fixedNow, Month: march, Buckets: buckets}, nil)

		w := serve(mockService, "GET", "/calendar?month=2024-03", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		var response dto.CalendarResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "2024-03", response.Month)
		require.Len(t, response.Days, 42)
		assert.Equal(t, "2024-02-25", response.Days[0].Date)
		assert.False(t, response.Days[0].InMonth)
		mockService.AssertExpectations(t)
	})

	t.Run("current month by default", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		mockService.On("Calendar", mock.Anything, fixedNow).
			Return(service.CalendarView{Now: fixedNow, Month: march}, nil)

		w := serve(mockService, "GET", "/calendar", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("bad month", func(t *testing.T) {
		mockService := new(MockDeadlineService)

		w := serve(mockService, "GET", "/calendar?month=March", "", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestDeadlineHandler_Notifications тестирует баннер и скрытие
func TestDeadlineHandler_Notifications(t *testing.T) {
	id := uuid.New()

	t.Run("banner", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		items := classify.AnnotateAll([]*deadline.Deadline{
			{UUID: id, Title: "A", Status: deadline.StatusPending, DueAt: fixedNow.Add(-2 * time.Hour)},
		}, fixedNow)
		mockService.On("Notifications", mock.Anything).Return(service.NotificationsView{
			Now:    fixedNow,
			Result: notification.Result{Items: items, Remaining: 2, Total: 3},
		}, nil)

		w := serve(mockService, "GET", "/notifications", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		var response dto.NotificationsResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, 2, response.Remaining)
		assert.Equal(t, 3, response.Total)
		require.Len(t, response.Items, 1)
		assert.Equal(t, "2h overdue", response.Items[0].Badge.Text)
	})

	t.Run("dismiss", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		mockService.On("Dismiss", mock.Anything, id).Return(nil)

		w := serve(mockService, "POST", "/notifications/"+id.String()+"/dismiss", "", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("dismiss unknown", func(t *testing.T) {
		mockService := new(MockDeadlineService)
		mockService.On("Dismiss", mock.Anything, id).Return(service.NewNotFound("Дедлайн", id.String()))

		w := serve(mockService, "POST", "/notifications/"+id.String()+"/dismiss", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

package app_test

import (
	"bytes"
	"context"
	"deadlineMate/internal/app"
	"deadlineMate/internal/config"
	"deadlineMate/internal/handlers/dto"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			RequestTimeout: 5 * time.Second,
			RateLimit:      1000,
			CORSOrigins:    []string{"*"},
		},
		Repository:    config.RepositoryConfig{Type: config.RepositoryPostgres},
		Dismissal:     config.DismissalConfig{Type: config.DismissalSQLite, Path: filepath.Join(t.TempDir(), "dismissals.db")},
		Worker:        config.WorkerConfig{Interval: time.Minute},
		Viewer:        config.ViewerConfig{Timezone: "UTC"},
		Notifications: config.NotificationsConfig{Limit: 3},
	}
}

// TestApp_DemoFallback тестирует запуск без базы: демо-данные и полный путь запроса
func TestApp_DemoFallback(t *testing.T) {
	a := app.New(testConfig(t))
	require.NoError(t, a.Init(context.Background()))
	defer a.Shutdown()

	h := a.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var dashboard dto.DashboardResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dashboard))
	assert.NotEmpty(t, dashboard.Deadlines)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/notifications", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var banner dto.NotificationsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&banner))
	require.NotEmpty(t, banner.Items, "в демо-данных есть просроченный дедлайн")

	first := banner.Items[0]
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", fmt.Sprintf("/notifications/%s/dismiss", first.UUID), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/notifications", nil))
	var after dto.NotificationsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&after))
	assert.Equal(t, banner.Total-1, after.Total)
	for _, item := range after.Items {
		assert.NotEqual(t, first.UUID, item.UUID)
	}
}

// TestApp_CreateAndCalendar тестирует создание дедлайна и его появление в календаре
func TestApp_CreateAndCalendar(t *testing.T) {
	cfg := testConfig(t)
	cfg.Repository.Type = config.RepositoryInMemory
	cfg.Dismissal = config.DismissalConfig{Type: config.DismissalInMemory}

	a := app.New(cfg)
	require.NoError(t, a.Init(context.Background()))
	defer a.Shutdown()
	h := a.Handler()

	due := time.Now().UTC().Add(2 * 24 * time.Hour).Truncate(time.Minute)
	body := fmt.Sprintf(`{"title": "Экзамен", "priority": "high", "due_at": %q}`, due.Format(time.RFC3339))

	req := httptest.NewRequest("POST", "/deadlines", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.DeadlineResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/calendar?month="+due.Format("2006-01"), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var cal dto.CalendarResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cal))

	found := false
	for _, day := range cal.Days {
		for _, d := range day.Deadlines {
			if d.UUID == created.UUID {
				found = true
				assert.Equal(t, due.Format("2006-01-02"), day.Date)
			}
		}
	}
	assert.True(t, found)
}

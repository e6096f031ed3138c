package app

import (
	"context"
	"deadlineMate/internal/config"
	"deadlineMate/internal/handlers"
	"deadlineMate/internal/logger"
	"deadlineMate/internal/middleware"
	"deadlineMate/internal/migrations"
	"deadlineMate/internal/notification"
	dlinmemory "deadlineMate/internal/repository/deadline/inmemory"
	"deadlineMate/internal/repository/deadline/postgres"
	dsinmemory "deadlineMate/internal/repository/dismissal/inmemory"
	"deadlineMate/internal/repository/dismissal/sqlite"
	"deadlineMate/internal/service"
	"deadlineMate/internal/worker"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.DeadlineRepository
	dismissals notification.Store
	service    *service.DeadlineService
	worker     *worker.NotificationWorker
	shutdowns  []func() // функции для graceful shutdown, вызываются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	loc, err := a.config.Location()
	if err != nil {
		return err
	}

	if err := a.initRepository(ctx, loc); err != nil {
		return err
	}
	if err := a.initDismissals(ctx); err != nil {
		return err
	}

	a.service = service.NewDeadlineService(a.repository, notification.NewDismissals(a.dismissals),
		service.WithLocation(loc),
		service.WithNotificationLimit(a.config.Notifications.Limit),
	)

	interval := a.config.Worker.Interval
	a.worker = worker.NewNotificationWorker(a.service, &interval)

	a.initRouter()
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "deadline-mate"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("dismissal", a.config.Dismissal.Type),
		zap.String("timezone", loc.String()))
	return nil
}

func (a *App) initRepository(ctx context.Context, loc *time.Location) error {
	repoType := a.config.Repository.Type
	if repoType == config.RepositoryPostgres && a.config.Database.URL == "" {
		logger.Warn("database.url не задан, используется демо-хранилище")
		repoType = config.RepositoryDemo
	}

	switch repoType {
	case config.RepositoryPostgres:
		if err := migrations.Up(a.config.Database.URL); err != nil {
			return err
		}

		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:        int32(a.config.Database.MaxConnections),
			MinConns:        int32(a.config.Database.MinConnections),
			MaxConnIdleTime: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений postgres...")
			storage.Close()
		})

	case config.RepositoryDemo:
		storage, err := dlinmemory.NewDemoStorage(ctx, time.Now().In(loc))
		if err != nil {
			return fmt.Errorf("загрузка демо-данных: %w", err)
		}
		a.repository = storage

	default:
		a.repository = dlinmemory.NewDeadlineStorage()
	}
	return nil
}

func (a *App) initDismissals(ctx context.Context) error {
	if a.config.Dismissal.Type != config.DismissalSQLite {
		a.dismissals = dsinmemory.NewDismissalStorage()
		return nil
	}

	storage, err := sqlite.New(ctx, a.config.Dismissal.Path)
	if err != nil {
		return fmt.Errorf("открытие хранилища скрытых уведомлений: %w", err)
	}
	a.dismissals = storage
	a.shutdowns = append(a.shutdowns, func() {
		if err := storage.Close(); err != nil {
			logger.Error("Ошибка закрытия SQLite", err)
		}
	})
	return nil
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{middleware.RequestIdHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(a.config.Server.RequestTimeout))
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))

	handlers.NewDeadlineHandler(a.service).Routes(r)

	a.router = r
}

// Handler - корневой обработчик, используется в тестах без запуска сервера
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и воркер уведомлений, завершается при отмене ctx
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http-сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

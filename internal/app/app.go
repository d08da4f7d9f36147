package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"taskPlanner/internal/apiclient"
	"taskPlanner/internal/config"
	"taskPlanner/internal/handlers"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/middleware"
	"taskPlanner/internal/notify"
	"taskPlanner/internal/session"
	"taskPlanner/internal/store"
	"taskPlanner/internal/worker"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	session   *session.Manager
	client    *apiclient.Client
	store     *store.TaskStore
	toasts    *notify.Queue
	worker    *worker.ReminderWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	tokens, err := session.NewFileStore(a.config.Session.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("хранилище токена: %w", err)
	}
	a.session = session.NewManager(tokens)

	a.toasts = notify.NewQueue(0)
	notifier := notify.Fanout{a.toasts, notify.Log{}}

	a.client = apiclient.New(a.config.API.BaseURL,
		apiclient.WithTimeout(a.config.API.Timeout),
		apiclient.WithCredentials(a.session),
		apiclient.WithRedirector(a.session, a.config.Session.SignInPath),
		apiclient.WithNotifier(notifier),
	)

	a.store = store.New(a.client)
	a.session.OnUserChanged(func(ctx context.Context, user *session.User) {
		if err := a.store.HandleUserChanged(ctx, user); err != nil {
			logger.Warn("App: Загрузка задач после смены пользователя не удалась", zap.Error(err))
		}
	})

	if user, err := a.session.Restore(ctx); err != nil {
		logger.Warn("App: Сессия не восстановлена", zap.Error(err))
	} else if user != nil {
		logger.Info("App: Сессия восстановлена", zap.Int64("user_id", user.ID))
	}

	if a.config.Reminders.Enabled {
		a.worker = worker.NewReminderWorker(a.store, notifier, &a.config.Reminders.Interval)
	}

	a.router = chi.NewRouter()
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logging)
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	a.router.Use(middleware.RateLimit(a.config.RateLimit.RPM))

	handlers.NewHandler(a.store, a.session, a.toasts, a.config.Session.SignInPath).Register(a.router)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) Store() *store.TaskStore {
	return a.store
}

// Run блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	if a.worker != nil {
		go a.worker.Start(workerCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", a.server.Addr), zap.String("api", a.client.BaseURL()))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("остановка сервера: %w", err)
	}
	return nil
}

func (a *App) shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/cancel_booking"
	cancelSessionHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/cancel_session"
	createBookingHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/create_booking"
	createSessionHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/create_session"
	deleteSessionHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/delete_session"
	getAvailableSlotsHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/get_booking"
	getSessionBookingsHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/get_session_bookings"
	getUserBookingsHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/get_user_bookings"
	listSessionsHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/list_sessions"
	markOutcomeHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/mark_outcome"
	submitFeedbackHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/submit_feedback"
	updateSessionHandler "github.com/m04kA/CIM-DemoBookingService/internal/api/handlers/update_session"
	"github.com/m04kA/CIM-DemoBookingService/internal/api/middleware"
	"github.com/m04kA/CIM-DemoBookingService/internal/config"
	bookingRepo "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/booking"
	sessionRepo "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/session"
	profileServiceClient "github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
	bookingsService "github.com/m04kA/CIM-DemoBookingService/internal/service/bookings"
	sessionsService "github.com/m04kA/CIM-DemoBookingService/internal/service/sessions"
	getAvailableSlotsUC "github.com/m04kA/CIM-DemoBookingService/internal/usecase/get_available_slots"
	listBookableSessionsUC "github.com/m04kA/CIM-DemoBookingService/internal/usecase/list_bookable_sessions"
	reserveBookingUC "github.com/m04kA/CIM-DemoBookingService/internal/usecase/reserve_booking"
	"github.com/m04kA/CIM-DemoBookingService/pkg/dbmetrics"
	"github.com/m04kA/CIM-DemoBookingService/pkg/logger"
	"github.com/m04kA/CIM-DemoBookingService/pkg/metrics"
	"github.com/m04kA/CIM-DemoBookingService/pkg/simpletxmanager"
	"github.com/m04kA/CIM-DemoBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CIM-DemoBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента ProfileService
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (ProfileService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		sessionRepository *sessionRepo.Repository
		bookingRepository *bookingRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		sessionRepository = sessionRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		sessionRepository = sessionRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &sessionsService.RealTimeProvider{}

	// Инициализируем сервисы
	sessionSvc := sessionsService.NewService(
		sessionRepository,
		bookingRepository,
		profileClient,
		txMgr,
		timeProvider,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		sessionRepository,
		profileClient,
		txMgr,
		timeProvider,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		sessionRepository,
		bookingRepository,
		log,
	)

	reserveBookingUseCase := reserveBookingUC.NewUseCase(
		sessionRepository,
		bookingRepository,
		txMgr,
		log,
	)

	listBookableSessionsUseCase := listBookableSessionsUC.NewUseCase(
		sessionRepository,
		getAvailableSlotsUseCase,
		profileClient,
		log,
	)

	// Инициализируем handlers
	createSession := createSessionHandler.NewHandler(sessionSvc, log)
	updateSession := updateSessionHandler.NewHandler(sessionSvc, log)
	cancelSession := cancelSessionHandler.NewHandler(sessionSvc, log)
	deleteSession := deleteSessionHandler.NewHandler(sessionSvc, log)
	listSessions := listSessionsHandler.NewHandler(listBookableSessionsUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(reserveBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	markOutcome := markOutcomeHandler.NewHandler(bookingSvc, log)
	submitFeedback := submitFeedbackHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getSessionBookings := getSessionBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог бронируемых демо-сессий
	api.HandleFunc("/sessions", listSessions.Handle).Methods(http.MethodGet)

	// Доступные слоты сессии с остатками мест
	api.HandleFunc("/sessions/{sessionId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Демо-сессии (для операторов профилей) ---
	protected.HandleFunc("/sessions", createSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}", updateSession.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/sessions/{sessionId}/cancel", cancelSession.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/sessions/{sessionId}", deleteSession.Handle).Methods(http.MethodDelete)

	// Список бронирований сессии (для операторов профилей)
	protected.HandleFunc("/sessions/{sessionId}/bookings", getSessionBookings.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	// Резервирование места
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Исход посещения (после прошедшего слота)
	protected.HandleFunc("/bookings/{bookingId}/outcome", markOutcome.Handle).Methods(http.MethodPatch)

	// Отзыв студента на завершенное бронирование
	protected.HandleFunc("/bookings/{bookingId}/feedback", submitFeedback.Handle).Methods(http.MethodPost)

	// История бронирований студента
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

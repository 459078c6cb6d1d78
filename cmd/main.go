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

	addAvailabilityHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/add_availability"
	addUnavailabilityHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/add_unavailability"
	cancelBookingHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/cancel_booking"
	cancelManyBookingsHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/cancel_many_bookings"
	createBookingHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/create_booking"
	deleteAvailabilityHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/delete_availability"
	deleteUnavailabilityHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/delete_unavailability"
	getAvailabilitiesHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/get_availabilities"
	getMyBookingsHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/get_my_bookings"
	getTutorSlotsHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/get_tutor_slots"
	getUnavailabilitiesHandler "github.com/m04kA/TMP-LessonService/internal/api/handlers/get_unavailabilities"
	"github.com/m04kA/TMP-LessonService/internal/api/middleware"
	"github.com/m04kA/TMP-LessonService/internal/config"
	availabilityRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/booking"
	exceptionRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/exception"
	notifyServiceClient "github.com/m04kA/TMP-LessonService/internal/integrations/notifyservice"
	profileServiceClient "github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
	bookingsService "github.com/m04kA/TMP-LessonService/internal/service/bookings"
	calendarService "github.com/m04kA/TMP-LessonService/internal/service/calendar"
	createBookingUC "github.com/m04kA/TMP-LessonService/internal/usecase/create_booking"
	getTutorSlotsUC "github.com/m04kA/TMP-LessonService/internal/usecase/get_tutor_slots"
	"github.com/m04kA/TMP-LessonService/pkg/dbmetrics"
	"github.com/m04kA/TMP-LessonService/pkg/logger"
	"github.com/m04kA/TMP-LessonService/pkg/metrics"
	"github.com/m04kA/TMP-LessonService/pkg/simpletxmanager"
	"github.com/m04kA/TMP-LessonService/pkg/txmanager"
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

	log.Info("Starting TMP-LessonService...")
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

	// Инициализируем интеграционных клиентов
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		exceptionRepository    *exceptionRepo.Repository
	)

	// Интерфейс для transaction manager (используется в services и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		exceptionRepository = exceptionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		exceptionRepository = exceptionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		profileClient,
		notifyClient,
		txMgr,
		log,
	)
	calendarSvc := calendarService.NewService(
		availabilityRepository,
		exceptionRepository,
		bookingRepository,
		profileClient,
		notifyClient,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		exceptionRepository,
		profileClient,
		txMgr,
		log,
	)
	getTutorSlotsUseCase := getTutorSlotsUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		exceptionRepository,
		log,
	)

	// Инициализируем handlers
	getTutorSlots := getTutorSlotsHandler.NewHandler(getTutorSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	cancelManyBookings := cancelManyBookingsHandler.NewHandler(bookingSvc, log)
	getMyBookings := getMyBookingsHandler.NewHandler(bookingSvc, log)
	addAvailability := addAvailabilityHandler.NewHandler(calendarSvc, log)
	getAvailabilities := getAvailabilitiesHandler.NewHandler(calendarSvc, log)
	deleteAvailability := deleteAvailabilityHandler.NewHandler(calendarSvc, log)
	addUnavailability := addUnavailabilityHandler.NewHandler(calendarSvc, log)
	getUnavailabilities := getUnavailabilitiesHandler.NewHandler(calendarSvc, log)
	deleteUnavailability := deleteUnavailabilityHandler.NewHandler(calendarSvc, log)

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

	// Получение свободных слотов тутора
	api.HandleFunc("/tutors/{tutorId}/slots", getTutorSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role headers)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Пакетная отмена бронирований
	protected.HandleFunc("/bookings/cancel-many", cancelManyBookings.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Бронирования текущего пользователя
	protected.HandleFunc("/bookings/me", getMyBookings.Handle).Methods(http.MethodGet)

	// --- Календарь тутора ---
	// Еженедельные окна доступности
	protected.HandleFunc("/calendar/availability", addAvailability.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/calendar/availability", getAvailabilities.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/calendar/availability/{windowId}", deleteAvailability.Handle).Methods(http.MethodDelete)

	// Разовые недоступности (с каскадной отменой бронирований)
	protected.HandleFunc("/calendar/unavailability", addUnavailability.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/calendar/unavailability", getUnavailabilities.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/calendar/unavailability/{exceptionId}", deleteUnavailability.Handle).Methods(http.MethodDelete)

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

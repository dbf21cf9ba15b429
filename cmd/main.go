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
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/cancel_appointment"
	confirmExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/confirm_express"
	createAppointmentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/create_appointment"
	createExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/create_express"
	getAppointmentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_available_slots"
	getPaymentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_payment"
	getProfessionalAppointmentsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_professional_appointments"
	getUserAppointmentsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_user_appointments"
	listExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/list_express"
	listPaymentsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/list_payments"
	markPaidHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/mark_paid"
	proposeExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/propose_express"
	realizeAppointmentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/realize_appointment"
	rejectExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/reject_express"
	setAvailabilityHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/set_availability"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
	"github.com/m04kA/SMC-TurnosService/internal/config"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	appointmentRepo "github.com/m04kA/SMC-TurnosService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-TurnosService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-TurnosService/internal/infra/storage/memory"
	paymentRepo "github.com/m04kA/SMC-TurnosService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-TurnosService/internal/infra/storage/pgstore"
	professionalRepo "github.com/m04kA/SMC-TurnosService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-TurnosService/internal/integrations/turnosapi"
	appointmentsService "github.com/m04kA/SMC-TurnosService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-TurnosService/internal/service/availability"
	expressService "github.com/m04kA/SMC-TurnosService/internal/service/express"
	paymentsService "github.com/m04kA/SMC-TurnosService/internal/service/payments"
	createAppointmentUC "github.com/m04kA/SMC-TurnosService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-TurnosService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TurnosService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurnosService/pkg/logger"
	"github.com/m04kA/SMC-TurnosService/pkg/metrics"
	"github.com/m04kA/SMC-TurnosService/pkg/txmanager"
)

// Store полный порт хранилища: его реализуют удалённый бэкенд, PostgreSQL и память
type Store interface {
	appointmentsService.Store
	availabilityService.Store
	expressService.Store
	paymentsService.Store
	createAppointmentUC.Store
}

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

	log.Info("Starting SMC-TurnosService...")
	log.Info("Configuration loaded from config.toml (store=%s, cache=%t)", cfg.Store.Mode, cfg.Cache.Enabled)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var store Store

	switch cfg.Store.Mode {
	case config.StoreRemote:
		store = turnosapi.NewClient(turnosapi.Options{
			BaseURL:   cfg.Backend.URL,
			Token:     cfg.Backend.Token,
			Timeout:   time.Duration(cfg.Backend.Timeout) * time.Second,
			Retries:   cfg.Backend.Retries,
			Backoff:   time.Duration(cfg.Backend.RetryBackoffMs) * time.Millisecond,
			RateLimit: cfg.Backend.RateLimit,
			RateBurst: cfg.Backend.RateBurst,
		}, metricsCollector, log)
		log.Info("Turnos backend client initialized (url=%s, timeout=%ds, retries=%d, rate_limit=%.1f)",
			cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.Retries, cfg.Backend.RateLimit)

	case config.StorePostgres:
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

		// Без коллектора обёртка только проксирует запросы
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)

		store = pgstore.New(
			appointmentRepo.NewRepository(wrappedDB),
			availabilityRepo.NewRepository(wrappedDB),
			paymentRepo.NewRepository(wrappedDB),
			professionalRepo.NewRepository(wrappedDB),
			txmanager.NewTransactionManager(wrappedDB),
		)

	case config.StoreMemory:
		store = memory.New()
		log.Warn("Using in-memory store: data is lost on restart")

	default:
		log.Fatal("Unknown store mode: %s", cfg.Store.Mode)
	}

	// Инициализируем кэш
	var backend cache.Backend
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTL) * time.Second
		switch cfg.Cache.Backend {
		case config.CacheRedis:
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.Cache.Redis.Addr,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
			})
			defer redisClient.Close()

			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				log.Warn("Redis is not reachable (addr=%s): %v", cfg.Cache.Redis.Addr, err)
			}
			cancel()

			backend = cache.NewRedisBackend(redisClient, cfg.Cache.Redis.Prefix, ttl)
			log.Info("Redis cache enabled (addr=%s, ttl=%s)", cfg.Cache.Redis.Addr, ttl)
		default:
			backend = cache.NewLRUBackend(cfg.Cache.Size, ttl)
			log.Info("LRU cache enabled (size=%d, ttl=%s)", cfg.Cache.Size, ttl)
		}
	}
	coherentCache := cache.New(backend, metricsCollector, log)

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(store, coherentCache, log)
	paymentsSvc := paymentsService.NewService(store, coherentCache, log)
	appointmentsSvc := appointmentsService.NewService(store, paymentsSvc, coherentCache, metricsCollector, log)
	expressSvc := expressService.NewService(store, appointmentsSvc, coherentCache, metricsCollector, location, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilitySvc,
		appointmentsSvc,
		location,
		cfg.Scheduling.MaxWeekOffset,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store,
		appointmentsSvc,
		getAvailableSlotsUseCase,
		coherentCache,
		metricsCollector,
		location,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	setAvailability := setAvailabilityHandler.NewHandler(availabilitySvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	realizeAppointment := realizeAppointmentHandler.NewHandler(appointmentsSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getProfessionalAppointments := getProfessionalAppointmentsHandler.NewHandler(appointmentsSvc, log)
	createExpress := createExpressHandler.NewHandler(expressSvc, log)
	listExpress := listExpressHandler.NewHandler(expressSvc, log)
	proposeExpress := proposeExpressHandler.NewHandler(expressSvc, log)
	confirmExpress := confirmExpressHandler.NewHandler(expressSvc, log)
	rejectExpress := rejectExpressHandler.NewHandler(expressSvc, log)
	getPayment := getPaymentHandler.NewHandler(paymentsSvc, log)
	listPayments := listPaymentsHandler.NewHandler(paymentsSvc, log)
	markPaid := markPaidHandler.NewHandler(paymentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Health check и metrics endpoint (публичные, без аутентификации)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// API ROUTES (требуют X-User-ID header)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(log))

	// --- Доступность профессионала ---
	api.HandleFunc("/professionals/{professionalId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/availability", setAvailability.Handle).Methods(http.MethodPut)

	// Неделя доступных слотов
	api.HandleFunc("/professionals/{professionalId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Турны ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/realize", realizeAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/appointments", getProfessionalAppointments.Handle).Methods(http.MethodGet)

	// --- Экспресс-турны ---
	api.HandleFunc("/express", createExpress.Handle).Methods(http.MethodPost)
	api.HandleFunc("/professionals/{professionalId}/express", listExpress.Handle).Methods(http.MethodGet)
	api.HandleFunc("/express/{appointmentId}/proposal", proposeExpress.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/express/{appointmentId}/confirm", confirmExpress.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/express/{appointmentId}/reject", rejectExpress.Handle).Methods(http.MethodPatch)

	// --- Оплаты ---
	api.HandleFunc("/professionals/{professionalId}/payments", listPayments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/payment", getPayment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/payment/paid", markPaid.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер; CORS оборачивает роутер, чтобы preflight не требовал X-User-ID
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      middleware.CORS(cfg.Server.CORSAllowedOrigins)(r),
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
	close(stopMetricsCh)

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

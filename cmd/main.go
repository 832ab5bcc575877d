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

	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	confirmReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/confirm_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	createScheduleHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_schedule"
	createServiceHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_service"
	deleteScheduleHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/delete_schedule"
	deleteServiceHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/delete_service"
	findAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/find_availability"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getServiceHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_service"
	getTenantConfigHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_tenant_config"
	listReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_reservations"
	listSchedulesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_schedules"
	listServicesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_services"
	updateScheduleHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_schedule"
	updateServiceHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_service"
	updateTenantConfigHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_tenant_config"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/core/conflicts"
	"github.com/m04kA/SMC-ReservationService/internal/core/transitions"
	catalogRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	tenantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-ReservationService/internal/scheduler"
	catalogService "github.com/m04kA/SMC-ReservationService/internal/service/catalog"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	schedulesService "github.com/m04kA/SMC-ReservationService/internal/service/schedules"
	tenantConfigService "github.com/m04kA/SMC-ReservationService/internal/service/tenantconfig"
	cancelReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
	confirmReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	expireReservationsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/expire_reservations"
	findAvailabilityUC "github.com/m04kA/SMC-ReservationService/internal/usecase/find_availability"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
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

	log.Info("Starting SMC-ReservationService...")

	location, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Invalid business timezone: %v", err)
	}
	log.Info("Business timezone: %s, max availability range: %d days", location, cfg.Business.MaxAvailabilityDays)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Репозитории работают либо через обёртку с метриками, либо напрямую с *sql.DB
	var (
		executor dbmetrics.DBExecutor
		txMgr    *txmanager.TransactionManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем репозитории
	reservationRepository := reservationRepo.NewRepository(executor)
	scheduleRepository := scheduleRepo.NewRepository(executor)
	catalogRepository := catalogRepo.NewRepository(executor)
	tenantRepository := tenantRepo.NewRepository(executor)

	// Инициализируем сервисы
	reservationsSvc := reservationsService.NewService(reservationRepository, log)
	schedulesSvc := schedulesService.NewService(scheduleRepository, txMgr, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)
	tenantConfigSvc := tenantConfigService.NewService(tenantRepository, txMgr, log)

	// Ядро: проверка конфликтов и машина состояний
	conflictValidator := conflicts.NewValidator(scheduleRepository, reservationRepository)
	transitionValidator := transitions.NewValidator(conflictValidator, location)

	// Инициализируем use cases
	findAvailabilityUseCase := findAvailabilityUC.NewUseCase(
		catalogRepository,
		scheduleRepository,
		reservationRepository,
		location,
		cfg.Business.MaxAvailabilityDays,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		catalogRepository,
		reservationRepository,
		conflictValidator,
		txMgr,
		metricsCollector,
		location,
		log,
	)

	confirmReservationUseCase := confirmReservationUC.NewUseCase(
		reservationRepository,
		tenantConfigSvc,
		transitionValidator,
		txMgr,
		metricsCollector,
		log,
	)

	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		tenantConfigSvc,
		transitionValidator,
		txMgr,
		metricsCollector,
		log,
	)

	expireReservationsUseCase := expireReservationsUC.NewUseCase(
		reservationRepository,
		txMgr,
		metricsCollector,
		location,
		log,
	)

	// Инициализируем handlers
	findAvailability := findAvailabilityHandler.NewHandler(findAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	listReservations := listReservationsHandler.NewHandler(reservationsSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	confirmReservation := confirmReservationHandler.NewHandler(confirmReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	getTenantConfig := getTenantConfigHandler.NewHandler(tenantConfigSvc, log)
	updateTenantConfig := updateTenantConfigHandler.NewHandler(tenantConfigSvc, log)
	listSchedules := listSchedulesHandler.NewHandler(schedulesSvc, log)
	createSchedule := createScheduleHandler.NewHandler(schedulesSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(schedulesSvc, log)
	deleteSchedule := deleteScheduleHandler.NewHandler(schedulesSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	deleteService := deleteServiceHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Все маршруты API требуют X-Tenant-ID
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Tenant)

	// --- Свободные слоты ---
	api.HandleFunc("/availability", findAvailability.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}/confirm", confirmReservation.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// --- Настройки тенанта ---
	api.HandleFunc("/config", getTenantConfig.Handle).Methods(http.MethodGet)
	api.HandleFunc("/config", updateTenantConfig.Handle).Methods(http.MethodPut)

	// --- Расписание ---
	api.HandleFunc("/schedules", listSchedules.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedules", createSchedule.Handle).Methods(http.MethodPost)
	api.HandleFunc("/schedules/{scheduleId}", updateSchedule.Handle).Methods(http.MethodPut)
	api.HandleFunc("/schedules/{scheduleId}", deleteSchedule.Handle).Methods(http.MethodDelete)

	// --- Каталог услуг ---
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	api.HandleFunc("/services/{serviceId}", getService.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	api.HandleFunc("/services/{serviceId}", deleteService.Handle).Methods(http.MethodDelete)

	// Фоновое закрытие прошедших бронирований
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	if cfg.Scheduler.Enabled {
		sweeper := scheduler.New(expireReservationsUseCase, cfg.Scheduler.Interval(), log)
		go sweeper.Start(sweeperCtx)
	}

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

	stopSweeper()

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

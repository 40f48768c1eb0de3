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

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api"
	clearCallLogsHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/clear_call_logs"
	getAppointmentsHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/get_appointments"
	getAvailableSlotsHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/get_available_slots"
	getCallLogsHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/get_call_logs"
	getClinicInfoHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/get_clinic_info"
	getFAQsHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/get_faqs"
	getStatsHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/get_stats"
	healthHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/health"
	vapiWebhookHandler "github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers/vapi_webhook"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/config"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/appointment"
	callLogRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/calllog"
	slotRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/slot"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/integrations/staffalert"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/normalizer"
	callsService "github.com/m04kA/SMC-VoiceReceptionist/internal/service/calls"
	catalogService "github.com/m04kA/SMC-VoiceReceptionist/internal/service/catalog"
	dashboardService "github.com/m04kA/SMC-VoiceReceptionist/internal/service/dashboard"
	faqService "github.com/m04kA/SMC-VoiceReceptionist/internal/service/faq"
	bookAppointmentUC "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/book_appointment"
	cancelAppointmentUC "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/cancel_appointment"
	checkAvailabilityUC "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/check_availability"
	findAppointmentUC "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/find_appointment"
	rescheduleAppointmentUC "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/dbmetrics"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/logger"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/memtx"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/metrics"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/txmanager"
)

// slotStore общий контракт memory и postgres каталога
type slotStore interface {
	EnsureCatalog(ctx context.Context, slots []domain.Slot) (int, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error)
	Get(ctx context.Context, key domain.SlotKey) (*domain.Slot, error)
	Reserve(ctx context.Context, key domain.SlotKey) error
	Release(ctx context.Context, key domain.SlotKey) error
}

// appointmentStore общий контракт memory и postgres хранилища записей
type appointmentStore interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	FindByPhone(ctx context.Context, phone string) ([]*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, key domain.SlotKey) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason *string) (*domain.Appointment, error)
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type callLogStore interface {
	Append(ctx context.Context, entry domain.CallLogEntry) error
	Recent(ctx context.Context, limit int) ([]domain.CallLogEntry, int, error)
	Clear(ctx context.Context) error
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

	log.Info("Starting SMC-VoiceReceptionist (environment=%s)...", cfg.Server.Environment)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid clinic timezone: %v", err)
	}
	clock := &normalizer.RealTimeProvider{}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище расписания
	var (
		slots        slotStore
		appointments appointmentStore
		txMgr        txManager
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		// При выключенных метриках обёртка работает как обычный *sql.DB
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

		slots = slotRepo.NewRepository(wrappedDB)
		appointments = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)

	default:
		slots = slotRepo.NewMemoryRepository()
		appointments = appointmentRepo.NewMemoryRepository()
		txMgr = memtx.NewManager()
		log.Info("Using in-memory schedule storage")
	}

	// Журнал звонков
	var callLogs callLogStore
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		callLogs = callLogRepo.NewRedisRepository(client, cfg.Redis.CallLogKey, cfg.Redis.MaxEntries)
		log.Info("Call log stored in redis (addr=%s, key=%s)", cfg.Redis.Addr, cfg.Redis.CallLogKey)
	} else {
		callLogs = callLogRepo.NewMemoryRepository(cfg.Redis.MaxEntries)
	}

	// Интеграции
	alerts := staffalert.NewClient(cfg.StaffAlert.URL, cfg.StaffAlertTimeout(), log)
	if !alerts.Enabled() {
		log.Warn("Staff alert url is not configured, escalations will only be logged")
	}

	clinic := cfg.ClinicInfo()
	norm := normalizer.New(loc, clock)

	// Инициализируем use cases
	checkAvailability := checkAvailabilityUC.NewUseCase(slots, norm, log)
	bookAppointment := bookAppointmentUC.NewUseCase(slots, appointments, txMgr, norm, log)
	findAppointment := findAppointmentUC.NewUseCase(appointments, log)
	rescheduleAppointment := rescheduleAppointmentUC.NewUseCase(slots, appointments, txMgr, norm, log)
	cancelAppointment := cancelAppointmentUC.NewUseCase(slots, appointments, txMgr, log)

	// Инициализируем сервисы
	faqSvc := faqService.NewService(clinic, log)
	callsSvc := callsService.NewService(callLogs, alerts, clinic, clock, log)
	dashboardSvc := dashboardService.NewService(slots, appointments, faqSvc, clinic, log)
	catalogSvc := catalogService.NewService(slots, bookAppointment, loc, clock, log)

	// Заполняем каталог слотов
	seedResult, err := catalogSvc.Seed(context.Background(), cfg.CatalogSeed())
	if err != nil {
		log.Fatal("Failed to seed slot catalog: %v", err)
	}
	log.Info("Slot catalog ready (total=%d, added=%d, demo_booked=%d, demo_skipped=%d)",
		seedResult.SlotsTotal, seedResult.SlotsAdded, seedResult.AppointmentsBooked, seedResult.AppointmentsSkipped)

	// Инициализируем handlers
	routes := api.Routes{
		Webhook: vapiWebhookHandler.NewHandler(
			vapiWebhookHandler.UseCases{
				CheckAvailability:     checkAvailability,
				BookAppointment:       bookAppointment,
				FindAppointment:       findAppointment,
				RescheduleAppointment: rescheduleAppointment,
				CancelAppointment:     cancelAppointment,
			},
			faqSvc,
			callsSvc,
			metricsCollector,
			cfg.RequestTimeout(),
			log,
		).Handle,
		CallLogs:       getCallLogsHandler.NewHandler(callsSvc, log).Handle,
		ClearCallLogs:  clearCallLogsHandler.NewHandler(callsSvc, log).Handle,
		ClinicInfo:     getClinicInfoHandler.NewHandler(dashboardSvc).Handle,
		Appointments:   getAppointmentsHandler.NewHandler(dashboardSvc, log).Handle,
		AvailableSlots: getAvailableSlotsHandler.NewHandler(dashboardSvc, log).Handle,
		FAQs:           getFAQsHandler.NewHandler(dashboardSvc).Handle,
		Stats:          getStatsHandler.NewHandler(dashboardSvc, log).Handle,
		Health:         healthHandler.NewHandler(cfg.Server.Environment, clock).Handle,
		WebhookSecret:  cfg.Vapi.WebhookSecret,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		MetricsPath:    cfg.Metrics.Path,
		Logger:         log,
	}

	// nil *Metrics в интерфейсе не равен nil, поэтому присваиваем только при включенных метриках
	if cfg.Metrics.Enabled {
		routes.Metrics = metricsCollector
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	if cfg.Vapi.WebhookSecret == "" {
		log.Warn("VAPI webhook secret is not set, webhook requests are not authenticated")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(routes),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		log.Info("Webhook endpoint: POST /api/vapi/webhook")
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

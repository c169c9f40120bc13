package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Somprasong001/simple-booking-app/internal/api"
	"github.com/Somprasong001/simple-booking-app/internal/audit"
	"github.com/Somprasong001/simple-booking-app/internal/booking"
	"github.com/Somprasong001/simple-booking-app/internal/catalog"
	"github.com/Somprasong001/simple-booking-app/internal/config"
	"github.com/Somprasong001/simple-booking-app/internal/database"
	"github.com/Somprasong001/simple-booking-app/internal/events"
	"github.com/Somprasong001/simple-booking-app/internal/metrics"
	"github.com/Somprasong001/simple-booking-app/internal/reminders"
	"github.com/Somprasong001/simple-booking-app/internal/service"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("BOOKING_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	cat := catalog.New(db)
	if rdb != nil && cfg.CacheTTL() > 0 {
		cat.UseRedisCache(rdb, cfg.CacheTTL())
	}

	clock := booking.SystemClock()
	locks := booking.NewLockTable(cfg.LockWait())
	committer := booking.NewCommitter(db, locks, clock, logger)

	lifecycleOpts := []booking.LifecycleOption{booking.WithLifecycleClock(clock)}
	if cfg.Booking.LenientTransitions {
		lifecycleOpts = append(lifecycleOpts, booking.WithTransitions(booking.LenientTransitions()))
	}
	lifecycle := booking.NewLifecycle(db, lifecycleOpts...)

	bus := events.NewEventBus()
	rules := service.BookingRules{
		MinAdvance: cfg.BookingMinAdvance(),
		MaxAdvance: cfg.BookingMaxAdvance(),
	}
	bookings := service.NewBookingService(db, cat, committer, lifecycle, bus, clock, rules, &logger)

	bus.Subscribe(events.TypeBookingCreated, func(e events.Event) error {
		logger.Debug().RawJSON("booking", e.Payload).Msg("booking created")
		return nil
	})
	bus.Subscribe(events.TypeBookingReminder, func(e events.Event) error {
		logger.Info().RawJSON("reminder", e.Payload).Msg("booking reminder due")
		return nil
	})

	srv := api.NewHTTPServer(api.Config{
		Port:      cfg.Server.Port,
		APIKey:    cfg.Server.APIKey,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	}, bookings, cat, audit.NewExporter(), &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Backup.Enabled {
		backups := database.NewBackupService(cfg.Database.Path, database.BackupConfig{
			Enabled:       true,
			StoragePath:   cfg.Backup.StoragePath,
			Interval:      cfg.BackupInterval(),
			RetentionDays: cfg.Backup.RetentionDays,
		}, &logger)
		go backups.Start(ctx)
	}

	if cfg.Reminders.Enabled {
		scheduler := reminders.NewScheduler(db, bus, clock, cfg.ReminderLead(), cfg.ReminderScanInterval(), &logger)
		go scheduler.Start(ctx)
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().Int("port", cfg.Server.Port).Msg("booking server started")
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("API server error")
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

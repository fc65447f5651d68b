package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/lock"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/router"
	"github.com/iliyamo/hotel-booking/internal/scheduler"
	"github.com/iliyamo/hotel-booking/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db: migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, running without rate limit, cache and shared locks")
	} else {
		defer rdb.Close()
	}

	// Repositories
	reservations := repository.NewReservationRepo(db)
	apartments := repository.NewApartmentRepo(db)
	users := repository.NewUserRepo(db)
	classRepo := repository.NewApartmentClassRepo(db)
	var classes service.ApartmentClassStore = classRepo
	if cc := config.LoadCacheConfig(); cc.Enabled && rdb != nil {
		classes = repository.NewCachedClassStore(classRepo, rdb, cc.TTL, cc.Prefix)
	}

	// Locks
	var locker service.Locker = lock.NewLocal()
	if lc := config.LoadLockConfig(); lc.UseRedis() {
		if rdb == nil {
			log.Printf("lock: LOCK_BACKEND=redis but redis is unavailable, using in-process locks")
		} else {
			locker = lock.NewRedis(rdb, lock.RedisOptions{
				Prefix:     lc.Prefix,
				TTL:        lc.TTL,
				RetryDelay: lc.RetryDelay,
				MaxWait:    lc.MaxWait,
			})
		}
	}

	// Events
	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		publisher = queue.NewPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartAuditConsumer(ctx, cfg.AMQPURL, cfg.AuditLog); err != nil {
				log.Printf("audit consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("events: AMQP_URL not set, reservation events disabled")
	}

	// Services
	calc := service.NewCalculator(reservations, apartments)
	booking := service.NewBookingEngine(reservations, classes, calc, locker, publisher, nil,
		service.BookingOptions{CountPending: cfg.CountPending})
	approvals := service.NewApprovalEngine(reservations, apartments, locker, publisher, nil)
	inventory := service.NewInventoryService(classes, apartments, reservations, locker, nil)

	if sc := config.LoadSchedulerConfig(); sc.Enabled {
		jobs, err := scheduler.New(approvals, sc.Interval, nil)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatalf("%v", err)
		}
		defer func() {
			if err := jobs.Shutdown(); err != nil {
				log.Printf("scheduler: shutdown: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("http: %s %s status=%d latency=%s id=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Printf("http: %s %s status=%d latency=%s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	router.Register(e, router.Handlers{
		Health:    handler.Health(db),
		Me:        handler.Me(users),
		Guest:     handler.NewGuestHandler(booking),
		Staff:     handler.NewStaffReservationHandler(approvals, calc),
		Inventory: handler.NewInventoryHandler(inventory),
	}, cfg.JWTSecret, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http: shutdown: %v", err)
	}
}

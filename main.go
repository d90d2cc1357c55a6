package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/plateful/floord/internal/floor"
	"github.com/plateful/floord/internal/mongo"
	"github.com/plateful/floord/internal/redis"
	"github.com/plateful/floord/pkg"
)

const (
	appNamespace = "FLOORD"
	appName      = "floord"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	lifecycle := []interface{}{}

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start mongo repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		err := errors.New("cannot get mongo database")
		log.Fatalf("%s(%s) cannot initialize database: %v", appName, appVersion, err)
	}

	orderRepo := mongo.NewOrderRepo(db)
	ticketRepo := mongo.NewTicketRepo(db)
	tableRepo := mongo.NewTableRepo(db)
	sessionRepo := mongo.NewSessionRepo(db)
	reservationRepo := mongo.NewReservationRepo(db)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	publisher, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	publisherLifecycle := aqm.LifecycleHooks{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	}
	lifecycle = append(lifecycle, publisherLifecycle)

	redisAddr := config.GetStringOrDef("redis.addr", "localhost:6379")
	redisClient := goredis.NewClient(&goredis.Options{Addr: redisAddr})

	var floorState floor.FloorStateStore
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The snapshot store is a read model; the service runs without it
		// and floor views fall back to the session collection.
		logger.Errorf("cannot connect to Redis, floor snapshots disabled: %v", err)
	} else {
		floorState = redis.NewFloorStateStore(redisClient)
		redisLifecycle := aqm.LifecycleHooks{
			OnStop: func(context.Context) error {
				return redisClient.Close()
			},
		}
		lifecycle = append(lifecycle, redisLifecycle)
	}

	coordinator := floor.NewCoordinator(floor.CoordinatorDeps{
		Repos: floor.Repos{
			OrderRepo:       orderRepo,
			TicketRepo:      ticketRepo,
			TableRepo:       tableRepo,
			SessionRepo:     sessionRepo,
			ReservationRepo: reservationRepo,
		},
		FloorState: floorState,
		Publisher:  publisher,
	}, logger)

	handler := floor.NewHandler(
		coordinator,
		config,
		logger,
	)

	subscriber, err := pkg.NewNATSSubscriber(natsURL, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	paymentSub := floor.NewPaymentSubscriber(subscriber, coordinator, logger)
	subscriberLifecycle := aqm.LifecycleHooks{
		OnStart: paymentSub.Start,
		OnStop: func(context.Context) error {
			return subscriber.Close()
		},
	}
	lifecycle = append(lifecycle, subscriberLifecycle)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})
	stack = append(stack, middleware.InternalOnly())

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycle...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

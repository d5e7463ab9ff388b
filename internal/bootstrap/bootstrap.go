package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/config"
	"github.com/fathima-sithara/poseidon-service/internal/database"
	"github.com/fathima-sithara/poseidon-service/internal/events"
	"github.com/fathima-sithara/poseidon-service/internal/handlers"
	"github.com/fathima-sithara/poseidon-service/internal/middleware"
	"github.com/fathima-sithara/poseidon-service/internal/repository"
	"github.com/fathima-sithara/poseidon-service/internal/routes"
	"github.com/fathima-sithara/poseidon-service/internal/server"
	"github.com/fathima-sithara/poseidon-service/internal/services"
	"github.com/fathima-sithara/poseidon-service/internal/utils"
)

type AppContext struct {
	Config  *config.Config
	Logger  *zap.Logger
	Sugar   *zap.SugaredLogger
	Mongo   *mongo.Client
	Redis   *redis.Client
	App     *fiber.App
	Cleanup *services.TokenCleanup
	// IPLimiter is set when redis is disabled and limiting is in-process.
	IPLimiter *middleware.IPRateLimiter
}

type CleanupFn func(context.Context)

const indexTimeout = 15 * time.Second

func Init(configPath string) (*AppContext, CleanupFn, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := utils.NewLogger(cfg.App.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	sugar := logger.Sugar()
	app := &AppContext{Config: cfg, Logger: logger, Sugar: sugar}
	sugar.Infof("Starting poseidon-service in %s environment", cfg.App.Env)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo, sugar)
	if err != nil {
		return nil, nil, err
	}
	app.Mongo = mongoClient

	if cfg.Redis.Enabled {
		rdb, err := database.ConnectRedis(cfg.Redis, sugar)
		if err != nil {
			_ = mongoClient.Disconnect(context.Background())
			return nil, nil, err
		}
		app.Redis = rdb
	}

	passengerRepo := repository.NewMongoPassengerRepo(db, cfg.Mongo.PassengersCollection)
	userRepo := repository.NewMongoUserRepo(db, cfg.Mongo.UsersCollection)
	tokenRepo := repository.NewMongoTokenRepo(db, cfg.Mongo.TokensCollection)
	if err := ensureIndexes(indexTimeout, map[string]func(context.Context) error{
		"passengers": passengerRepo.EnsureIndexes,
		"users":      userRepo.EnsureIndexes,
		"tokens":     tokenRepo.EnsureIndexes,
	}); err != nil {
		app.close(context.Background(), nil)
		return nil, nil, err
	}

	pub := events.Multi{events.NewLogPublisher(logger)}
	var kafkaPub *events.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			MaxFailures: cfg.Kafka.BreakerMaxFailures,
			OpenTimeout: cfg.Kafka.BreakerTimeout,
		}, logger)
		pub = append(pub, kafkaPub)
		sugar.Infof("Publishing domain events to kafka topic %s", cfg.Kafka.Topic)
	}

	hasher := utils.NewPasswordHasher(cfg.Security.PasswordHashCost)
	jwtMgr := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)

	authSvc, err := services.NewAuthService(userRepo, tokenRepo, hasher, jwtMgr, logger)
	if err != nil {
		app.close(context.Background(), kafkaPub)
		return nil, nil, err
	}
	userSvc := services.NewUserService(userRepo, tokenRepo, hasher, authSvc, pub, logger)
	passengerSvc := services.NewPassengerService(passengerRepo, pub, logger)
	app.Cleanup = services.NewTokenCleanup(services.NewTokenService(tokenRepo), cfg.Cleanup.Interval, logger)

	validate := utils.NewValidator()
	checks := map[string]handlers.Check{
		"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
	}
	if app.Redis != nil {
		rdb := app.Redis
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	var limiter fiber.Handler
	if app.Redis != nil {
		limiter = middleware.NewRedisRateLimiter(app.Redis, "poseidon:ratelimit", cfg.RateLimit.Requests, cfg.RateLimit.Window, logger).Handler()
	} else {
		app.IPLimiter = middleware.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
		limiter = app.IPLimiter.Handler()
	}

	app.App = server.New(cfg, logger, metrics, limiter)
	routes.Setup(app.App, routes.Handlers{
		Passenger:  handlers.NewPassengerHandler(passengerSvc, validate, logger),
		Statistics: handlers.NewStatisticsHandler(passengerSvc, logger),
		User:       handlers.NewUserHandler(userSvc, validate, logger),
		Health:     handlers.NewHealthHandler(checks, logger),
	}, middleware.JWTMiddleware(authSvc, logger), reg)

	return app, func(ctx context.Context) { app.close(ctx, kafkaPub) }, nil
}

// ensureIndexes runs every index builder under one budget that starts now,
// after the store connections are established.
func ensureIndexes(timeout time.Duration, builders map[string]func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for name, ensure := range builders {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}

func (a *AppContext) close(ctx context.Context, kafkaPub *events.KafkaPublisher) {
	if kafkaPub != nil {
		if cerr := kafkaPub.Close(); cerr != nil {
			a.Sugar.Errorf("Kafka writer close error: %v", cerr)
		}
	}

	if cerr := a.Mongo.Disconnect(ctx); cerr != nil {
		a.Sugar.Errorf("MongoDB disconnect error: %v", cerr)
	}

	if a.Redis != nil {
		if cerr := a.Redis.Close(); cerr != nil {
			a.Sugar.Errorf("Redis client close error: %v", cerr)
		}
	}

	if cerr := a.Logger.Sync(); cerr != nil {
		log.Printf("Logger sync error: %v", cerr)
	}
}

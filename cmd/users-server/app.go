package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/usersapi/users-api/internal/config"
	"github.com/usersapi/users-api/internal/database"
	"github.com/usersapi/users-api/internal/dynamo"
	"github.com/usersapi/users-api/internal/health"
	"github.com/usersapi/users-api/internal/server"
	"github.com/usersapi/users-api/internal/users"
)

// AppState holds all application services
type AppState struct {
	Logger      *zap.Logger
	Config      *config.Config
	Store       users.UserStore
	UserService users.UserService
	Health      *health.Manager

	closers []func() error
}

// newAppState connects the configured backend and builds the services on it
func newAppState(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*AppState, error) {
	as := &AppState{
		Logger: logger,
		Config: cfg,
		Health: health.NewManager(logger),
	}

	store, err := as.openStore(ctx)
	if err != nil {
		as.Close()
		return nil, err
	}
	as.Store = store
	as.UserService = users.NewUserService(store)

	return as, nil
}

func (as *AppState) openStore(ctx context.Context) (users.UserStore, error) {
	common := as.Config.Common
	table := common.Store.Table

	switch common.Store.Backend {
	case config.BackendDynamoDB:
		client, err := dynamo.NewClient(ctx, common.DynamoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		as.Health.AddChecker(dynamo.NewTableHealthChecker(client, table))

		as.Logger.Info("Using DynamoDB store",
			zap.String("table", table),
			zap.String("region", common.DynamoDB.Region),
			zap.Bool("offline", common.DynamoDB.Offline))
		return users.NewDynamoStore(client, table, common.DynamoDB.ScanPageSize), nil

	case config.BackendPostgres:
		db, err := database.Open(ctx, common.Postgres)
		if err != nil {
			return nil, err
		}
		as.closers = append(as.closers, db.Close)
		as.Health.AddChecker(database.NewHealthChecker(db))

		as.Logger.Info("Using PostgreSQL store",
			zap.String("host", common.Postgres.Host),
			zap.Int("port", common.Postgres.Port),
			zap.String("database", common.Postgres.Database),
			zap.String("table", table))
		return users.NewPostgresStore(db, table, common.Postgres.ScanPageSize), nil

	case config.BackendRedis:
		client := users.NewRedisClient(common.Redis)
		as.closers = append(as.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		as.Health.AddChecker(health.NewFuncChecker("redis", true, func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))

		as.Logger.Info("Using Redis store",
			zap.String("addr", common.Redis.Addr()),
			zap.String("key", table))
		return users.NewRedisStore(client, table, common.Redis.ScanPageSize), nil

	case config.BackendMemory:
		as.Health.AddChecker(health.NewFuncChecker("memory", false, func(context.Context) error {
			return nil
		}))
		as.Logger.Warn("Using in-memory store, data is lost on exit")
		return users.NewInMemoryStore(), nil
	}

	return nil, fmt.Errorf("unsupported store backend %q", common.Store.Backend)
}

// Router builds the HTTP handler for the application
func (as *AppState) Router() *gin.Engine {
	handlers := users.NewUserHandlers(as.UserService, as.Logger)
	return server.NewRouter(server.Options{
		Logger:         as.Logger,
		Health:         as.Health,
		MaxRequestSize: as.Config.Common.Http.MaxRequestSize,
	}, handlers.RegisterRoutes)
}

// Close releases the store connections
func (as *AppState) Close() {
	for _, closeFn := range as.closers {
		if err := closeFn(); err != nil {
			as.Logger.Error("Error closing store connection", zap.Error(err))
		}
	}
	as.closers = nil
}

func initLogger(logConfig config.LogConfig) (*zap.Logger, error) {
	var cfg zap.Config
	if logConfig.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch logConfig.Level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// bootstrap loads config, logger and application state for a command
func bootstrap(ctx context.Context) (*AppState, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := initLogger(cfg.Common.Log)
	if err != nil {
		return nil, err
	}
	logger.Info("Configuration loaded",
		zap.String("source", cfg.Source),
		zap.String("backend", cfg.Common.Store.Backend))

	gin.SetMode(gin.ReleaseMode)

	as, err := newAppState(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application state", zap.Error(err))
		_ = logger.Sync()
		return nil, err
	}
	return as, nil
}

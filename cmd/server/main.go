package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	ledgerapp "github.com/cylinderx/backend/internal/application/ledger"
	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/infrastructure/cache"
	"github.com/cylinderx/backend/internal/infrastructure/config"
	"github.com/cylinderx/backend/internal/infrastructure/event"
	"github.com/cylinderx/backend/internal/infrastructure/logger"
	"github.com/cylinderx/backend/internal/infrastructure/persistence"
	"github.com/cylinderx/backend/internal/infrastructure/scheduler"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CylinderX Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewQueryLogger(log, logger.GormLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	cylinderRepo := persistence.NewGormCylinderRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRecordRepository(db.DB)
	refillRepo := persistence.NewGormRefillRecordRepository(db.DB)
	transferRepo := persistence.NewGormTransferRecordRepository(db.DB)
	outletRepo := persistence.NewGormOutletRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Settings repository, cached when enabled. The resolver sits on the
	// hot path of every priced operation.
	var settingRepo settings.Repository = persistence.NewGormSettingRepository(db.DB)
	var invalidator *cache.RedisSettingInvalidator
	var settingCache settings.Cache

	if cfg.Cache.Enabled {
		cacheCfg := settings.CacheConfig{L1TTL: cfg.Cache.L1TTL, L2TTL: cfg.Cache.L2TTL}

		if cfg.Redis.Host != "" {
			redisClient := redis.NewClient(&redis.Options{
				Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			pingCtx, pingCancel := context.WithTimeout(rootCtx, 5*time.Second)
			err = redisClient.Ping(pingCtx).Err()
			pingCancel()
			if err != nil {
				log.Fatal("Failed to connect to Redis", zap.Error(err))
			}

			redisCache := cache.NewRedisSettingCacheWithClient(redisClient,
				cache.WithCacheConfig(cacheCfg),
				cache.WithCacheLogger(log),
			)
			settingCache = redisCache
			invalidator = cache.NewRedisSettingInvalidatorWithClient(redisClient,
				cache.WithInvalidatorLogger(log),
			)

			// Drop local entries when another process edits a setting
			go func() {
				if err := invalidator.Subscribe(rootCtx, func(msg settings.CacheUpdateMessage) {
					if err := settingCache.Delete(rootCtx, msg.SettingKey); err != nil {
						log.Warn("failed to invalidate setting", zap.String("key", msg.SettingKey), zap.Error(err))
					}
				}); err != nil && rootCtx.Err() == nil {
					log.Error("setting invalidation subscription ended", zap.Error(err))
				}
			}()
			log.Info("Setting cache enabled", zap.String("backend", "redis"))
		} else {
			settingCache = cache.NewInMemorySettingCache(
				cache.WithInMemoryConfig(cacheCfg),
				cache.WithInMemoryLogger(log),
			)
			log.Info("Setting cache enabled", zap.String("backend", "memory"))
		}

		settingRepo = cache.NewCachedSettingRepository(settingRepo, settingCache, invalidatorOrNil(invalidator), log)
		defer func() {
			_ = settingCache.Close()
		}()
	}

	resolver := settings.NewStoreResolver(settingRepo)

	// Event bus with the low stock watcher
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(ledgerapp.NewLowStockHandler(cylinderRepo, resolver, log))
	if err := bus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Ledger service
	scope := persistence.NewGormTransactionScope(db.DB)
	ledgerService := ledgerapp.NewService(
		cylinderRepo, leaseRepo, refillRepo, transferRepo,
		outletRepo, userRepo, resolver, scope, log,
	)
	ledgerService.SetEventPublisher(bus)
	ledgerService.SetMaxRetries(cfg.Ledger.MaxRetries)

	// Overdue lease sweep
	sweep := scheduler.NewOverdueScheduler(ledgerService, scheduler.OverdueSchedulerConfig{
		Enabled:       cfg.Scheduler.Enabled,
		SweepInterval: cfg.Scheduler.SweepInterval,
	}, log)
	if err := sweep.Start(rootCtx); err != nil {
		log.Fatal("Failed to start overdue sweep", zap.Error(err))
	}

	log.Info("CylinderX Backend started")

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	sweep.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	cancel()
	if invalidator != nil {
		if err := invalidator.Close(); err != nil {
			log.Error("Error closing invalidator", zap.Error(err))
		}
	}
	log.Info("CylinderX Backend stopped")
}

// invalidatorOrNil avoids handing the repository a typed nil interface
func invalidatorOrNil(inv *cache.RedisSettingInvalidator) settings.CacheInvalidator {
	if inv == nil {
		return nil
	}
	return inv
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecadmin/internal/config"
	"ecadmin/internal/handler"
	"ecadmin/internal/infra/cache"
	"ecadmin/internal/infra/db"
	"ecadmin/internal/infra/logger"
	infraRepo "ecadmin/internal/infra/repository"
	"ecadmin/internal/jobs"
	"ecadmin/internal/observability"
	"ecadmin/internal/server"
	"ecadmin/internal/usecase"
	"ecadmin/internal/validator"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Config{
		Development: !cfg.IsProduction(),
		Level:       cfg.LogLevel,
		Encoding:    cfg.LogEncoding,
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	logRepo := infraRepo.NewInventoryLogGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	metrics := observability.NewMetrics()
	effects := usecase.SideEffects{Metrics: metrics, Log: log}

	//Redisがあるときだけキャッシュと在庫アラートを有効にする
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		effects.Cache = cache.NewAnalyticsCache(rdb, cfg.AnalyticsCacheTTL)

		jobClient := jobs.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		defer func() { _ = jobClient.Close() }()
		effects.Notifier = jobClient
	} else {
		log.Info("redis disabled: analytics cache and low stock alerts are off")
	}

	//Usecase生成
	clock := &realClock{}
	validate := validator.New()

	categoryUC := usecase.NewCategoryUsecase(categoryRepo, validate)
	productUC := usecase.NewProductUsecase(txm, productRepo, validate, effects)
	inventoryUC := usecase.NewInventoryUsecase(txm, inventoryRepo, logRepo, validate, effects)
	saleUC := usecase.NewSaleUsecase(txm, saleRepo, clock, validate, effects)
	analyticsUC := usecase.NewAnalyticsUsecase(saleRepo, clock, effects)

	//Handler生成
	srv := server.New(cfg, log, metrics, server.Handlers{
		Categories: handler.NewCategoryHandler(categoryUC),
		Products:   handler.NewProductHandler(productUC),
		Inventory:  handler.NewInventoryHandler(inventoryUC),
		Sales:      handler.NewSaleHandler(saleUC, analyticsUC),
	})

	//Server起動
	return srv.Start(ctx)
}

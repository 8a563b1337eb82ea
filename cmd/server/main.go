package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"salesorder-service/internal/catalog"
	"salesorder-service/internal/config"
	handler "salesorder-service/internal/controllers/http"
	"salesorder-service/internal/infra"
	"salesorder-service/internal/infra/database"
	"salesorder-service/internal/infra/rabbitmq"
	"salesorder-service/internal/infra/rediscache"
	"salesorder-service/internal/infra/storage"
	applog "salesorder-service/internal/logger"
	"salesorder-service/internal/normalize"
	"salesorder-service/internal/repository/gormrepo"
	"salesorder-service/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	repo := gormrepo.NewOrderRepository(db, logger)

	files, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			return fmt.Errorf("failed to init publisher: %w", err)
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Info("RABBITMQ_URL not set, order events are disabled")
	}

	s := services.NewOrderService(
		repo,
		infra.NewExtractionClient(cfg.Extraction.APIURL, cfg.Extraction.Timeout),
		infra.NewMatchingClient(cfg.Matching.APIURL, cfg.Matching.Timeout),
		catalog.NewReader(cfg.Catalog.File),
		files,
		publisher,
		logger,
	)
	s.SetNormalizer(normalize.Normalizer{Strict: cfg.Normalizer.Strict})

	if cfg.Redis.URL != "" {
		cache, err := rediscache.NewFromURL(ctx, cfg.Redis.URL, cfg.Redis.PoolSize)
		if err != nil {
			logger.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			defer cache.Close()
			s.SetCache(cache, cfg.Cache.TTL)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxSize
	r.Use(gin.Recovery())
	r.Use(applog.GinMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Disposition"},
	}))

	handler.NewHandler(s, logger).RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting sales order service", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

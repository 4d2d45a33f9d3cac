package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/NabirasulA/Galaxy/internal/cache"
	"github.com/NabirasulA/Galaxy/internal/client/alphavantage"
	"github.com/NabirasulA/Galaxy/internal/client/grok"
	"github.com/NabirasulA/Galaxy/internal/client/ipoalerts"
	"github.com/NabirasulA/Galaxy/internal/config"
	cronrunner "github.com/NabirasulA/Galaxy/internal/cron"
	"github.com/NabirasulA/Galaxy/internal/db"
	"github.com/NabirasulA/Galaxy/internal/events"
	"github.com/NabirasulA/Galaxy/internal/handler"
	"github.com/NabirasulA/Galaxy/internal/logger"
	"github.com/NabirasulA/Galaxy/internal/metrics"
	"github.com/NabirasulA/Galaxy/internal/repository"
	gormrepository "github.com/NabirasulA/Galaxy/internal/repository/gorm"
	"github.com/NabirasulA/Galaxy/internal/repository/memory"
	"github.com/NabirasulA/Galaxy/internal/service"

	_ "github.com/NabirasulA/Galaxy/docs"
)

func main() {
	cfgPath := os.Getenv("GALAXY_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("GALAXY_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Money leaves the API as JSON numbers, e.g. "buyPrice": 166.67.
	decimal.MarshalJSONWithoutQuotes = true

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logger.Warn("unknown app timezone, using UTC", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
		loc = time.UTC
	}

	var store repository.Repository
	if strings.EqualFold(strings.TrimSpace(cfg.DB.Driver), "memory") {
		logger.Warn("using in-memory store; holdings are lost on restart")
		store = memory.New()
	} else {
		dbConn, err := db.Open(cfg.DB)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)

		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
		store = gormrepository.New(dbConn.Gorm)
	}

	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
	}

	cacheStore, closeCache := initCacheStore(cfg.Cache, logger)
	defer closeCache()
	refresher := cache.NewRefresher(cacheStore)
	refresher.FetchTimeout = cfg.MarketData.Timeout
	refresher.Observe = func(key string, result cache.Result) {
		appMetrics.ObserveCache(key, string(result))
	}

	publisher := initPublisher(cfg.Events, settingsSvc, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close event publisher failed", zap.Error(err))
		}
	}()

	avClient := alphavantage.NewClient(&http.Client{Timeout: cfg.MarketData.Timeout}, cfg.MarketData.BaseURL, cfg.MarketData.APIKey)
	ipoClient := ipoalerts.NewClient(&http.Client{Timeout: cfg.IPO.Timeout}, cfg.IPO.BaseURL, cfg.IPO.APIKey)
	grokClient := grok.NewClient(&http.Client{Timeout: cfg.AI.Timeout}, cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)
	if !avClient.Configured() {
		logger.Warn("market data api key missing; movers endpoints will return 503")
	}
	if !ipoClient.Configured() {
		logger.Warn("ipo api key missing; ipo endpoints will return 503")
	}
	if !grokClient.Configured() {
		logger.Warn("ai api key missing; ai endpoints will report not configured")
	}

	marketSvc := &service.MarketService{
		Client:  avClient,
		Cache:   refresher,
		TTL:     cfg.MarketData.CacheTTL,
		Flags:   settingsSvc,
		Metrics: appMetrics,
		Logger:  logger,
	}
	ipoSvc := &service.IPOService{
		Client:       ipoClient,
		DefaultPage:  cfg.IPO.DefaultPage,
		DefaultLimit: cfg.IPO.DefaultLimit,
		Metrics:      appMetrics,
		Logger:       logger,
	}
	portfolioSvc := &service.PortfolioService{
		Repo:    store,
		Logger:  logger,
		Events:  publisher,
		Metrics: appMetrics,
	}
	summarySvc := &service.DailySummaryService{
		Repo:     store,
		Valuer:   service.NewValuer(cfg.Portfolio.Valuation, marketSvc, logger),
		Logger:   logger,
		Events:   publisher,
		Metrics:  appMetrics,
		Flags:    settingsSvc,
		Location: loc,
	}
	advisorSvc := &service.AdvisorService{
		Client:  grokClient,
		Repo:    store,
		Flags:   settingsSvc,
		Metrics: appMetrics,
		Logger:  logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.RequestID())
	engine.Use(handler.AccessLog(logger))
	engine.Use(handler.CORS(cfg.Server.CORSOrigins))
	if appMetrics != nil {
		engine.Use(appMetrics.Middleware())
	}
	engine.Use(handler.WriteAudit(logger))

	healthHandler := &handler.HealthHandler{Store: store}
	healthHandler.Register(engine)
	portfolioHandler := &handler.PortfolioHandler{Portfolio: portfolioSvc, Summary: summarySvc}
	portfolioHandler.Register(engine)
	marketHandler := &handler.MarketHandler{Market: marketSvc, IPO: ipoSvc}
	marketHandler.Register(engine)
	aiHandler := &handler.AIHandler{Advisor: advisorSvc}
	aiHandler.Register(engine)
	settingsHandler := &handler.SettingsHandler{Settings: settingsSvc}
	settingsHandler.Register(engine)

	if appMetrics != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(appMetrics.Handler()))
	}
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx, loc)
	if cfg.Cron.Enabled {
		if _, err := cronRunner.Add("daily_summary", cfg.Cron.DailySummary, summarySvc.RunScheduled); err != nil {
			logger.Warn("cron register daily summary failed", zap.String("spec", cfg.Cron.DailySummary), zap.Error(err))
		}
		cronRunner.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
	cronRunner.Stop()
}

func initCacheStore(cfg config.CacheConfig, logger *zap.Logger) (cache.Store, func()) {
	if !strings.EqualFold(strings.TrimSpace(cfg.Backend), "redis") || strings.TrimSpace(cfg.Redis.Addr) == "" {
		return cache.NewMemoryStore(), func() {}
	}
	rs := cache.NewRedisStore(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, "galaxy:")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, falling back to memory cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = rs.Close()
		return cache.NewMemoryStore(), func() {}
	}
	logger.Info("redis cache ok", zap.String("addr", cfg.Redis.Addr))
	return rs, func() { _ = rs.Close() }
}

func initPublisher(cfg config.EventsConfig, flags *service.SystemSettingsService, logger *zap.Logger) events.Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return events.NopPublisher{}
	}
	kp, err := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, cfg.WriteTimeout)
	if err != nil {
		logger.Warn("kafka publisher init failed (events disabled)", zap.Error(err))
		return events.NopPublisher{}
	}
	logger.Info("kafka publisher ready", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return events.Gated{
		Next: kp,
		Enabled: func(ctx context.Context) bool {
			return flags.IsEnabled(ctx, service.FeatureEvents, true)
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/TrackPage/config"
	lookupapi "github.com/BearBump/TrackPage/internal/api/lookup_api"
	"github.com/BearBump/TrackPage/internal/broker/kafka"
	"github.com/BearBump/TrackPage/internal/cache/rediscache"
	"github.com/BearBump/TrackPage/internal/integrations/carrier"
	"github.com/BearBump/TrackPage/internal/integrations/carrier/dhlhttp"
	"github.com/BearBump/TrackPage/internal/integrations/carrier/fedexhttp"
	"github.com/BearBump/TrackPage/internal/integrations/carrier/upshttp"
	"github.com/BearBump/TrackPage/internal/integrations/carrier/uspshttp"
	"github.com/BearBump/TrackPage/internal/integrations/commerce/shopifyhttp"
	"github.com/BearBump/TrackPage/internal/services/analytics"
	"github.com/BearBump/TrackPage/internal/services/lookup"
	"github.com/BearBump/TrackPage/internal/storage/pgshop"
)

type apiApp struct {
	ctx      context.Context
	cancel   context.CancelFunc
	opts     apiOpts
	api      *lookupapi.LookupAPI
	recorder *analytics.Recorder
	closeDB  func()
}

func mustBootstrapAPI() *apiApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	swaggerPath := os.Getenv("swaggerPath")
	if swaggerPath == "" {
		panic("swaggerPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.TrackPage.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.LookupRecordedTopicName
	if topic == "" {
		topic = "lookup.recorded"
	}
	shopTTL := time.Duration(cfg.TrackPage.ShopCacheTTLSeconds) * time.Second
	if shopTTL <= 0 {
		shopTTL = 5 * time.Minute
	}
	rlPerMin := int64(cfg.TrackPage.LookupRateLimitPerMinute)
	if rlPerMin <= 0 {
		rlPerMin = 60
	}

	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
	st := mustOpenPostgresWithRetry(connString, 60*time.Second)

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)
	rl := rediscache.NewRateLimiter(redisAddr)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	recorder := analytics.NewRecorder(kafka.NewProducer(brokers), topic)

	commerceClient := shopifyhttp.New(cfg.Shopify.BaseURL, cfg.Shopify.APIVersion)
	tracker := newTracker(cfg.Carriers)

	svc := lookup.New(
		st, rc, shopTTL,
		lookup.NewResolver(commerceClient),
		lookup.NewAggregator(commerceClient, tracker),
		recorder,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &apiApp{
		ctx:    ctx,
		cancel: cancel,
		opts: apiOpts{
			httpAddr:    httpAddr,
			swaggerPath: swaggerPath,
		},
		api:      lookupapi.New(svc, rl, rlPerMin),
		recorder: recorder,
		closeDB:  st.Close,
	}
}

// Перевозчик без ключа не подключается: диспетчер сразу уйдёт в fallback,
// не делая сетевых вызовов.
func newTracker(c config.CarriersConfig) *carrier.Tracker {
	var ups, fedex, usps, dhl carrier.Client
	if c.UPSAPIKey != "" {
		ups = upshttp.New(c.UPSBaseURL, c.UPSAPIKey)
	}
	if c.FedExAPIKey != "" {
		fedex = fedexhttp.New(c.FedExBaseURL, c.FedExAPIKey)
	}
	if c.USPSAPIKey != "" {
		usps = uspshttp.New(c.USPSBaseURL, c.USPSAPIKey)
	}
	if c.DHLAPIKey != "" {
		dhl = dhlhttp.New(c.DHLBaseURL, c.DHLAPIKey)
	}
	return carrier.New(ups, fedex, usps, dhl)
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pgshop.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgshop.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *apiApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.recorder != nil {
		a.recorder.Wait()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *apiApp) Run() error {
	return runAPIServer(a.ctx, a.opts, a.api)
}

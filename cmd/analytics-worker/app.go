package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/BearBump/TrackPage/config"
	"github.com/BearBump/TrackPage/internal/broker/kafka"
	"github.com/BearBump/TrackPage/internal/broker/messages"
	"github.com/BearBump/TrackPage/internal/services/analytics"
	"github.com/BearBump/TrackPage/internal/storage/pgshop"
	"golang.org/x/sync/errgroup"
)

type kafkaConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
	Close() error
}

type analyticsStore interface {
	analytics.EventStore
	lookupStatsStore
}

type workerFactories struct {
	newStorage  func(cfg *config.Config) (store analyticsStore, closeFn func(), err error)
	newConsumer func(cfg *config.Config, topic, group string) kafkaConsumer

	onHTTPListen func(httpAddr string) // для тестов
}

func defaultWorkerFactories() workerFactories {
	return workerFactories{
		newStorage: func(cfg *config.Config) (analyticsStore, func(), error) {
			sslMode := cfg.Database.SSLMode
			if sslMode == "" {
				sslMode = "disable"
			}
			connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
				cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
			st, err := pgshop.New(connString)
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newConsumer: func(cfg *config.Config, topic, group string) kafkaConsumer {
			brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
			return kafka.NewConsumer(brokers, topic, group)
		},
	}
}

// RunAnalyticsWorker держит две горутины: консьюмер lookup.recorded и
// служебный HTTP. Падение любой из них валит процесс целиком, оркестратор
// перезапустит.
func RunAnalyticsWorker(ctx context.Context, cfg *config.Config, f workerFactories) error {
	topic := cfg.Kafka.LookupRecordedTopicName
	if topic == "" {
		topic = "lookup.recorded"
	}
	group := cfg.TrackPage.KafkaConsumerGroup
	if group == "" {
		group = "analytics-worker"
	}

	st, closeFn, err := f.newStorage(cfg)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	consumer := f.newConsumer(cfg, topic, group)
	defer func() { _ = consumer.Close() }()

	applier := analytics.NewApplier(st)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("kafka consumer started", "topic", topic, "group", group)
		return consumer.Consume(gctx, func(_key, value []byte) error {
			var m messages.LookupRecorded
			if err := json.Unmarshal(value, &m); err != nil {
				return err
			}
			return applier.ApplyKafkaMessage(gctx, m)
		})
	})

	g.Go(func() error {
		return runWorkerHTTPServer(gctx, workerHTTPOpts{
			httpAddr: cfg.TrackPage.WorkerHTTPAddr,
			onListen: f.onHTTPListen,
			stats:    st,
		})
	})

	return g.Wait()
}

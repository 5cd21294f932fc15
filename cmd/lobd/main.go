// Command lobd runs the engine as a daemon: simulated order flow,
// websocket market data, Prometheus metrics, and an optional Kafka
// trade/depth feed backed by a pebble outbox.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lob/config"
	"lob/domain/matching"
	"lob/infra/kafka"
	infralog "lob/infra/log"
	"lob/infra/metrics"
	"lob/infra/outbox"
	"lob/jobs/broadcaster"
	"lob/jobs/depth"
	"lob/jobs/sim"
	"lob/server"
	"lob/service"
)

func main() {
	cfg := config.Load()
	logger := infralog.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---------------- Outbox ----------------

	var ob *outbox.Outbox
	if cfg.Feed.Enabled {
		var err error
		ob, err = outbox.Open(cfg.Feed.OutboxDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("outbox init failed")
		}
		defer ob.Close()
	}

	// ---------------- Engine + Service ----------------

	eng := matching.New()
	svc := service.New(eng, ob, logger)

	// ---------------- Feed jobs ----------------

	if cfg.Feed.Enabled {
		bc, err := broadcaster.New(ob, cfg.Feed.Brokers, cfg.Feed.TradeTopic, cfg.FlushEvery(), logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("broadcaster init failed")
		}
		defer bc.Close()
		bc.Start(ctx)

		producer := kafka.NewProducer(cfg.Feed.Brokers, cfg.Feed.DepthTopic)
		defer producer.Close()
		depth.New(svc, producer, cfg.Feed.DepthLevels, cfg.DepthEvery(), logger).Start(ctx)
	}

	// ---------------- Simulator ----------------

	if cfg.Sim.Enabled {
		sim.New(svc, cfg.SimEvery(), cfg.Sim.BasePrice, cfg.Sim.RangeCents, cfg.Sim.MaxQty, logger).Start(ctx)
	}

	// ---------------- Metrics ----------------

	reg := metrics.Init()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		logger.Info().Str("addr", cfg.Server.MetricsAddr).Msg("metrics listening")
		if err := http.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil {
			logger.Error().Err(err).Msg("metrics server exited")
		}
	}()

	// ---------------- Market data ----------------

	srv := server.New(svc, logger)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("market data listening")
		if err := http.ListenAndServe(cfg.Server.Addr, srv.Routes()); err != nil {
			logger.Error().Err(err).Msg("market data server exited")
		}
	}()

	// ---------------- Shutdown ----------------

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("shutdown signal received")
	cancel()
}

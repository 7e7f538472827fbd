package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"netspeed-monitor/internal/collector/network"
	"netspeed-monitor/internal/config"
	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
	"netspeed-monitor/internal/metrics"
	"netspeed-monitor/internal/monitor"
	"netspeed-monitor/internal/transport/rest"
	"netspeed-monitor/internal/transport/websocket"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	appLog := logger.New(cfg)
	appLog.Info("netspeed: starting...", "address", cfg.Address, "counter_source", cfg.CounterSource)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sampler := network.NewCollector(counterSource(cfg), network.NewFilter(cfg.IncludeIfaces, cfg.ExcludeIfaces), appLog)
	mon := monitor.New(cfg, sampler, appLog)
	defer mon.Close()

	exporter := metrics.NewExporter()
	defer mon.Subscribe(exporter)()

	hub := websocket.NewHub(ctx, appLog, func(channel string) (any, bool) {
		switch channel {
		case domain.WsChannelSpeed:
			return mon.Speed(), true
		case domain.WsChannelInfo:
			return mon.Info(), true
		case domain.WsChannelProcesses:
			return mon.Processes(), true
		}
		return nil, false
	})
	defer mon.Subscribe(hub)()

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		Monitor: rest.NewMonitorHandler(mon),
		Ws:      websocket.NewHandler(hub, appLog, cfg.JWTSecret, cfg.AllowedOrigins).Serve,
		Metrics: exporter.Handler(),
	})
	srv := rest.NewServer(router, cfg.Address)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Monitoring tasks
	g.Go(func() error {
		mon.Start(gCtx)
		<-gCtx.Done()
		mon.Stop()
		return nil
	})

	// 2. WebSocket hub
	g.Go(func() error {
		hub.Run()
		return nil
	})

	// 3. HTTP server
	g.Go(func() error {
		appLog.Info("http: starting server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLog.Error("netspeed: stopped with error", "error", err)
	}

	appLog.Info("netspeed: stopped gracefully")
}

func counterSource(cfg *config.Config) network.Source {
	if cfg.CounterSource == config.CounterSourceProcfs {
		return network.NewProcSource(cfg.ProcNetDevPath)
	}
	return network.NewGopsutilSource()
}

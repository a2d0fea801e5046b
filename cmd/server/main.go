// Command main is the entry point for the social app backend server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nshivakumar1/social-app-clone/internal/alerts"
	"github.com/nshivakumar1/social-app-clone/internal/config"
	"github.com/nshivakumar1/social-app-clone/internal/middleware"
	"github.com/nshivakumar1/social-app-clone/internal/observability"
	"github.com/nshivakumar1/social-app-clone/internal/seed"
	"github.com/nshivakumar1/social-app-clone/internal/server"
	"github.com/nshivakumar1/social-app-clone/internal/stats"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize tracing
	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "social-app",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.TracingOTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	// Create server with dependency injection
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Seed the store before the first request can arrive
	if cfg.SeedDemoPosts {
		now := time.Now().UTC()
		srv.Store().Preload(seed.WelcomePosts(now))
		if cfg.SeedExtraPosts > 0 {
			srv.Store().Preload(seed.DemoPosts(cfg.SeedExtraPosts, now))
		}
		log.Printf("Seeded %d posts", srv.Store().Len())
	}

	// Periodic stats recomputation feeding the Prometheus gauges
	worker := stats.NewWorker(srv.Store(), srv.Registry(),
		time.Duration(cfg.StatsIntervalSeconds)*time.Second, middleware.Logger)
	worker.Start()

	// Optional startup notice to Slack
	slack := alerts.NewSlackNotifier(cfg.SlackWebhookURL, cfg.SlackChannel, cfg.Env, middleware.Logger)
	if slack.Enabled() {
		go slack.Send(context.Background(),
			fmt.Sprintf("Social app server starting on port %s", cfg.Port), alerts.SeverityGood)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		worker.Stop()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
	}()

	// Start server (blocks until shutdown)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"elrs-hud/internal/app"
	"elrs-hud/internal/config"
	"elrs-hud/internal/flight"
	"elrs-hud/internal/telemetry"
)

func main() {
	cfg := config.Load()

	// Command line flags default to the environment/built-in configuration.
	flag.IntVar(&cfg.Window.Width, "width", cfg.Window.Width, "Window width")
	flag.IntVar(&cfg.Window.Height, "height", cfg.Window.Height, "Window height")
	flag.IntVar(&cfg.Window.TPS, "tps", cfg.Window.TPS, "Fixed frame rate target")
	flag.BoolVar(&cfg.Window.Decorated, "decorated", cfg.Window.Decorated, "Show OS window decorations")
	flag.BoolVar(&cfg.Window.Transparent, "transparent", cfg.Window.Transparent, "Transparent window background")
	flag.StringVar(&cfg.Telemetry.Source, "source", cfg.Telemetry.Source, "Attitude source: synthetic or grpc")
	flag.Float64Var(&cfg.Telemetry.RatePerTick, "rate", cfg.Telemetry.RatePerTick, "Synthetic source degrees per tick")
	flag.StringVar(&cfg.Telemetry.Addr, "grpc", cfg.Telemetry.Addr, "Telemetry gRPC server address")
	flag.DurationVar(&cfg.Telemetry.StaleThreshold, "stale", cfg.Telemetry.StaleThreshold, "Hold the last attitude after this long without telemetry")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("HUD overlay")

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var source flight.Source
	switch cfg.Telemetry.Source {
	case config.SourceGRPC:
		log.Printf("Streaming attitude from gRPC backend at %s", cfg.Telemetry.Addr)
		client := telemetry.NewClient(cfg.Telemetry.Addr, cfg.Telemetry.StaleThreshold)
		if err := client.Connect(); err != nil {
			log.Fatalf("Failed to create telemetry client: %v", err)
		}
		defer client.Close()
		if err := client.Start(ctx); err != nil {
			log.Fatalf("Failed to start telemetry stream: %v", err)
		}
		source = client
	default:
		log.Printf("Using synthetic attitude, %.3f deg/tick", cfg.Telemetry.RatePerTick)
		source = flight.NewSynthetic(flight.Attitude{}, cfg.Telemetry.RatePerTick)
	}

	// Run the application
	if err := app.New(cfg, source).Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

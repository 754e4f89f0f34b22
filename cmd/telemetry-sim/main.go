// Command telemetry-sim serves a synthetic attitude stream for the HUD's
// gRPC source.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"elrs-hud/internal/config"
	"elrs-hud/internal/flight"
	"elrs-hud/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Printf("telemetry-sim exited: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	listen := flag.String("listen", ":10000", "gRPC listen address")
	rate := flag.Float64("rate", cfg.Telemetry.RatePerTick, "Degrees added to each angle per message")
	interval := flag.Duration("interval", cfg.Telemetry.StreamInterval, "Interval between messages")
	pitch := flag.Float64("pitch", 0, "Initial pitch (deg)")
	roll := flag.Float64("roll", 0, "Initial roll (deg)")
	heading := flag.Float64("heading", 0, "Initial heading (deg)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		return err
	}

	src := flight.NewSynthetic(flight.Attitude{Pitch: *pitch, Roll: *roll, Heading: *heading}, *rate)
	return telemetry.NewServer(src, *interval).Serve(ctx, lis)
}

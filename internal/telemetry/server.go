package telemetry

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"elrs-hud/internal/flight"
)

// Server streams attitudes sampled from a flight.Source to every
// subscriber at a fixed interval.
type Server struct {
	source   flight.Source
	interval time.Duration
	mu       sync.Mutex // serializes source sampling across streams
}

// NewServer creates a server sampling src every interval.
func NewServer(src flight.Source, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Server{source: src, interval: interval}
}

// Register adds the Telemetry service to reg.
func (s *Server) Register(reg grpc.ServiceRegistrar) {
	RegisterAttitudeStreamer(reg, s)
}

// StreamAttitude sends one message per interval until the client goes away.
// Ticks where the source has no data yet are skipped.
func (s *Server) StreamAttitude(_ *emptypb.Empty, stream grpc.ServerStream) error {
	ctx := stream.Context()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			att, err := s.sample()
			if errors.Is(err, flight.ErrNoData) {
				continue
			}
			if err != nil {
				return status.Errorf(codes.Unavailable, "sample attitude: %v", err)
			}
			if err := stream.SendMsg(EncodeAttitude(att, time.Now())); err != nil {
				return err
			}
		}
	}
}

func (s *Server) sample() (flight.Attitude, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.Sample()
}

// Serve runs a gRPC server on lis until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	gs := grpc.NewServer()
	s.Register(gs)

	go func() {
		<-ctx.Done()
		log.Println("telemetry: shutting down server")
		// Streams never finish on their own, so GracefulStop would block.
		gs.Stop()
	}()

	log.Printf("telemetry: serving on %s", lis.Addr())
	if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

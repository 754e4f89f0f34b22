package telemetry

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"elrs-hud/internal/flight"
)

// ErrStale is returned when no attitude arrived within the stale threshold.
var ErrStale = errors.New("telemetry: attitude data is stale")

const maxBackoff = 30 * time.Second

// Client receives the attitude stream and keeps the latest value. It
// implements flight.Source.
type Client struct {
	addr           string
	staleThreshold time.Duration
	dialOpts       []grpc.DialOption
	minBackoff     time.Duration

	mu        sync.Mutex
	conn      *grpc.ClientConn
	cancel    context.CancelFunc
	done      chan struct{}
	streaming bool

	state struct {
		sync.RWMutex
		attitude   flight.Attitude
		sentAt     time.Time
		lastUpdate time.Time
	}
}

// NewClient creates a client for addr. A zero staleThreshold disables
// staleness checking. Extra dial options are appended to the insecure
// transport credentials.
func NewClient(addr string, staleThreshold time.Duration, opts ...grpc.DialOption) *Client {
	return &Client{
		addr:           addr,
		staleThreshold: staleThreshold,
		dialOpts:       opts,
		minBackoff:     time.Second,
	}
}

// Connect prepares the gRPC connection. The transport is established
// lazily by the first stream.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil // Already connected
	}

	opts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, c.dialOpts...)
	conn, err := grpc.NewClient(c.addr, opts...)
	if err != nil {
		return err
	}
	c.conn = conn
	log.Printf("telemetry: client for %s ready", c.addr)
	return nil
}

// Start begins streaming in the background until ctx is cancelled or Stop
// is called. The stream is re-opened with exponential backoff (1s to 30s)
// whenever it ends.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return errors.New("telemetry: Start before Connect")
	}
	if c.streaming {
		return nil
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	c.streaming = true

	go c.run(ctx, c.conn, c.done)
	return nil
}

// Stop ends the stream and waits for the background loop to exit.
func (c *Client) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.streaming = false
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Close stops streaming and closes the connection.
func (c *Client) Close() error {
	c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Sample returns the latest attitude, flight.ErrNoData before the first
// message, or ErrStale when the last message is older than the threshold.
func (c *Client) Sample() (flight.Attitude, error) {
	c.state.RLock()
	defer c.state.RUnlock()

	if c.state.lastUpdate.IsZero() {
		return flight.Attitude{}, flight.ErrNoData
	}
	if c.staleThreshold > 0 && time.Since(c.state.lastUpdate) > c.staleThreshold {
		return flight.Attitude{}, ErrStale
	}
	return c.state.attitude, nil
}

// LastUpdate returns the receive time of the latest message, or zero.
func (c *Client) LastUpdate() time.Time {
	c.state.RLock()
	defer c.state.RUnlock()
	return c.state.lastUpdate
}

// SentAt returns the sender's timestamp of the latest message, or zero.
func (c *Client) SentAt() time.Time {
	c.state.RLock()
	defer c.state.RUnlock()
	return c.state.sentAt
}

func (c *Client) update(att flight.Attitude, sentAt time.Time) {
	c.state.Lock()
	defer c.state.Unlock()
	c.state.attitude = att
	c.state.sentAt = sentAt
	c.state.lastUpdate = time.Now()
}

func (c *Client) run(ctx context.Context, conn *grpc.ClientConn, done chan<- struct{}) {
	defer close(done)

	backoff := c.minBackoff
	for {
		received, err := c.stream(ctx, conn)
		if ctx.Err() != nil {
			return
		}
		if received {
			backoff = c.minBackoff
		}
		log.Printf("telemetry: stream ended: %v (retrying in %s)", err, backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// stream runs one StreamAttitude call until it ends. received reports
// whether at least one valid message arrived.
func (c *Client) stream(ctx context.Context, conn *grpc.ClientConn) (received bool, err error) {
	st, err := conn.NewStream(ctx, &serviceDesc.Streams[0], streamAttitudeMethod)
	if err != nil {
		return false, err
	}
	if err := st.SendMsg(&emptypb.Empty{}); err != nil {
		return false, err
	}
	if err := st.CloseSend(); err != nil {
		return false, err
	}

	for {
		msg := new(structpb.Struct)
		if err := st.RecvMsg(msg); err != nil {
			// io.EOF when the server ends the stream cleanly.
			return received, err
		}

		att, sentAt, err := DecodeAttitude(msg)
		if err != nil {
			log.Printf("telemetry: %v", err)
			continue
		}
		c.update(att, sentAt)
		received = true
	}
}

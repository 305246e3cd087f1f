// Package redis provides a taglog sink that appends accepted events to
// a Redis stream, so other processes can tail a shared log with XREAD.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/taglog"
//	    sinkredis "github.com/madcok-co/taglog/contrib/sink/redis"
//	    goredis "github.com/redis/go-redis/v9"
//	)
//
//	rdb := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	taglog.RegisterSink(sinkredis.NewDriver(rdb))
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/madcok-co/taglog"
	"github.com/redis/go-redis/v9"
)

const defaultStream = "taglog:events"

// Driver implements taglog.Sink using a Redis stream.
type Driver struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	timeout time.Duration

	mu      sync.Mutex
	lastErr error
}

// Option configures the Driver.
type Option func(*Driver)

// WithStream sets the stream key events are appended to.
func WithStream(stream string) Option {
	return func(d *Driver) {
		d.stream = stream
	}
}

// WithMaxLen caps the stream length (approximate trimming). Zero means
// unbounded.
func WithMaxLen(maxLen int64) Option {
	return func(d *Driver) {
		d.maxLen = maxLen
	}
}

// WithTimeout bounds each append. The sink is synchronous, so this also
// bounds how long a log call can block on a slow Redis.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.timeout = timeout
	}
}

// NewDriver creates a new Redis stream sink.
func NewDriver(client *redis.Client, opts ...Option) *Driver {
	d := &Driver{
		client:  client,
		stream:  defaultStream,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Client returns the underlying Redis client.
func (d *Driver) Client() *redis.Client {
	return d.client
}

// Stream returns the stream key events are appended to.
func (d *Driver) Stream() string {
	return d.stream
}

// Log appends the event to the stream. A failed append is remembered
// and surfaced by the next Sync; logging itself never fails loudly.
func (d *Driver) Log(sev taglog.Severity, tag, message string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	values := map[string]any{
		"severity": sev.String(),
		"tag":      tag,
		"message":  message,
	}
	if err != nil {
		values["error"] = err.Error()
	}

	appendErr := d.client.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		MaxLen: d.maxLen,
		Approx: true,
		Values: values,
	}).Err()

	if appendErr != nil {
		d.mu.Lock()
		d.lastErr = appendErr
		d.mu.Unlock()
	}
}

// Sync reports and clears the last append failure.
func (d *Driver) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.lastErr
	d.lastErr = nil
	return err
}

// Ensure Driver implements taglog.Sink
var _ taglog.Sink = (*Driver)(nil)

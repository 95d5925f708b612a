package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
)

const (
	heartbeat         = 10 * time.Second
	reconnectAttempts = 5
	reconnectBackoff  = 2 * time.Second
)

var (
	ErrEmptyDSN     = errors.New("rabbitmq dsn is empty")
	ErrNotConnected = errors.New("rabbitmq is not connected")
)

// RabbitMQ holds one connection and one channel. Both are replaced on
// reconnect, so callers take the channel through Channel.
type RabbitMQ struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	mu       sync.Mutex
	isClosed bool
	dsn      string

	log logger.Logger
}

// New dials the broker and opens a channel.
func New(ctx context.Context, dsn string, log logger.Logger) (*RabbitMQ, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	r := &RabbitMQ{dsn: dsn, log: log}
	if err := r.connect(); err != nil {
		return nil, err
	}

	log.Info(wrap.WithAction(ctx, types.ActionRabbitMQConnected), "connected to rabbitMQ")
	return r, nil
}

// connect dials, opens a channel and starts watching both for closure.
// The caller holds mu or owns r exclusively.
func (r *RabbitMQ) connect() error {
	conn, err := amqp.DialConfig(r.dsn, amqp.Config{Heartbeat: heartbeat})
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	r.conn = conn
	r.ch = ch
	r.isClosed = false

	go r.watch(conn, connClosed, chClosed)
	return nil
}

// watch marks the client closed when either the connection or the channel
// goes away. A stale watcher for a replaced connection does nothing.
func (r *RabbitMQ) watch(conn *amqp.Connection, connClosed, chClosed <-chan *amqp.Error) {
	var (
		closeErr *amqp.Error
		what     string
	)
	select {
	case closeErr = <-connClosed:
		what = "connection"
	case closeErr = <-chClosed:
		what = "channel"
	}

	r.mu.Lock()
	if r.conn != conn {
		r.mu.Unlock()
		return
	}
	r.isClosed = true
	r.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), types.ActionRabbitConnectionClosed)
	if closeErr != nil {
		r.log.Error(ctx, "RabbitMQ "+what+" closed", closeErr)
		return
	}
	r.log.Debug(ctx, "RabbitMQ "+what+" closed gracefully")
}

// IsConnectionClosed reports whether the client needs a reconnect.
func (r *RabbitMQ) IsConnectionClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closedLocked()
}

func (r *RabbitMQ) closedLocked() bool {
	if r.conn == nil || r.ch == nil {
		return true
	}
	return r.isClosed || r.conn.IsClosed() || r.ch.IsClosed()
}

// Channel returns the current channel. Do not keep it across reconnects.
func (r *RabbitMQ) Channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closedLocked() {
		return nil, ErrNotConnected
	}
	return r.ch, nil
}

// Close closes the channel and then the connection. It gives up waiting when
// ctx is done.
func (r *RabbitMQ) Close(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionRabbitConnectionClosing)

	r.mu.Lock()
	ch, conn := r.ch, r.conn
	r.ch, r.conn = nil, nil
	r.isClosed = true
	r.mu.Unlock()

	if ch == nil && conn == nil {
		return nil
	}

	if ch != nil {
		if err := closeWithCtx(ctx, ch.Close); err != nil && ctx.Err() == nil {
			r.log.Warn(ctx, "error closing channel", "error", err.Error())
		}
	}

	if conn != nil {
		if err := closeWithCtx(ctx, conn.Close); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitConnectionClosed), "rabbitMQ closed")
	return nil
}

func closeWithCtx(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reconnect redials with a linear backoff. It is a no-op on a healthy client.
func (r *RabbitMQ) Reconnect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closedLocked() {
		return nil
	}

	var err error
	for attempt := 1; attempt <= reconnectAttempts; attempt++ {
		if err = r.connect(); err == nil {
			r.log.Info(wrap.WithAction(ctx, types.ActionRabbitReconnected), "RabbitMQ reconnected", "attempt", attempt)
			return nil
		}

		wait := time.Duration(attempt) * reconnectBackoff
		r.log.Debug(ctx, "reconnect attempt failed", "attempt", attempt, "retry_in", wait.String())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("failed to reconnect to RabbitMQ after %d attempts: %w", reconnectAttempts, err)
}

// EnsureConnection reconnects when the client is closed.
func (r *RabbitMQ) EnsureConnection(ctx context.Context) error {
	if !r.IsConnectionClosed() {
		return nil
	}
	r.log.Warn(ctx, "rabbit connection closed, reconnecting")
	return r.Reconnect(ctx)
}

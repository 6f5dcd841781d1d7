package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SeenConsumer listens to catalog.seen_updated and appends one line per
// flushed cell to <LogDir>/seen.log.
type SeenConsumer struct {
	URL    string
	LogDir string
	Log    *zap.Logger
}

// Run connects, declares the durable queue and consumes until ctx is
// cancelled.  Broker failures trigger a reconnect with exponential backoff
// capped at 30s; a bad message is rejected without requeue so the loop
// keeps going.
func (c *SeenConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *SeenConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(SeenUpdatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(SeenUpdatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(c.LogDir, d.Body); err != nil {
				c.Log.Error("handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one SeenUpdatedEvent and appends it to seen.log.
func HandleMessage(logDir string, body []byte) error {
	var ev SeenUpdatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, "seen.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	for _, ch := range ev.Changes {
		line := fmt.Sprintf("[%s] Seen updated | event_id=%s | user_id=%d | row=%d | movie=%q | column=%q | cell=%s | value=%t\n",
			ev.FlushedAt, ev.EventID, ev.UserID, ch.RowID, ch.Movie, ch.Column, ch.Cell, ch.Value)
		if _, err := f.WriteString(line); err != nil {
			return fmt.Errorf("write log: %w", err)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

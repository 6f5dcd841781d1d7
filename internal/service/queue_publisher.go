// Package service publishes domain events to RabbitMQ.  Errors are logged
// and returned so callers can ignore failures without interrupting the
// request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/queue"
)

// QueuePublisher dials the broker for each event; flushes are rare so a
// long-lived connection is not worth its reconnect handling.
type QueuePublisher struct {
	URL string
	Log *zap.Logger
}

// PublishSeenUpdated sends a persistent SeenUpdatedEvent to the default
// exchange with the queue name as routing key.
func (p *QueuePublisher) PublishSeenUpdated(ctx context.Context, event queue.SeenUpdatedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.SeenUpdatedQueue, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.SeenUpdatedQueue, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq publish failed", zap.Error(err), zap.String("event_id", event.EventID))
		return err
	}
	p.Log.Debug("published seen update", zap.String("event_id", event.EventID), zap.Int("changes", len(event.Changes)))
	return nil
}

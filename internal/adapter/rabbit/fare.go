package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	"github.com/Temutjin2k/fare-predictor/pkg/metrics"
	"github.com/Temutjin2k/fare-predictor/pkg/rabbit"
)

const (
	FareExchange = "fare_topic"

	QueueFarePredictions = "fare_predictions"
	bindingFareEvents    = "fare.*"

	publishAttempts = 3
	publishBackoff  = 200 * time.Millisecond
)

type FareBroker struct {
	client  *rabbit.RabbitMQ
	service string

	l logger.Logger
}

func NewFareBroker(client *rabbit.RabbitMQ, service string, l logger.Logger) *FareBroker {
	return &FareBroker{
		client:  client,
		service: service,
		l:       l,
	}
}

// Setup declares the fare exchange. Call once after connecting.
func (b *FareBroker) Setup(ctx context.Context) error {
	ch, err := b.channel(ctx)
	if err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(FareExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", FareExchange, err)
	}
	return nil
}

// PublishFarePredicted sends the event to 'fare_topic' with key 'fare.predicted'.
func (b *FareBroker) PublishFarePredicted(ctx context.Context, event models.FarePredictedEvent) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_fare_predicted")

	ch, err := b.channel(ctx)
	if err != nil {
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = retry(ctx, publishAttempts, publishBackoff, func() error {
		return ch.PublishWithContext(
			ctx,
			FareExchange,             // exchange
			types.EventFarePredicted, // routing key
			false,                    // mandatory
			false,                    // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				DeliveryMode:  amqp.Persistent,
				MessageId:     event.PredictionID.String(),
				CorrelationId: event.CorrelationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	})
	metrics.RecordRabbitMQPublish(b.service, types.EventFarePredicted, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish with context: %w", err))
	}

	return nil
}

// channel reconnects if needed and returns the live channel.
func (b *FareBroker) channel(ctx context.Context) (*amqp.Channel, error) {
	if err := b.client.EnsureConnection(ctx); err != nil {
		return nil, err
	}
	return b.client.Channel()
}

type FarePredictedHandler func(ctx context.Context, event models.FarePredictedEvent) error

// ConsumeFarePredicted reads fare events until ctx is done, reconnecting on
// channel loss. Recoverable handler errors are requeued.
func (b *FareBroker) ConsumeFarePredicted(ctx context.Context, handler FarePredictedHandler) error {
	const op = "FareBroker.ConsumeFarePredicted"
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_fare_predicted")

	for {
		if ctx.Err() != nil {
			b.l.Debug(ctx, "consume fare predicted stopped by context")
			return nil
		}

		msgs, err := b.subscribe(ctx)
		if err != nil {
			b.l.Error(ctx, "subscribe failed", err, "op", op)
			if !sleepCtx(ctx, 2*time.Second) {
				return nil
			}
			continue
		}

		b.l.Info(ctx, "start consuming fare events", "queue", QueueFarePredictions)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				b.l.Info(ctx, "fare event consumer shutting down", "op", op)
				return nil

			case msg, ok := <-msgs:
				if !ok {
					b.l.Warn(ctx, "message channel closed, reconnecting...", "op", op)
					if !sleepCtx(ctx, 2*time.Second) {
						return nil
					}
					break consumeLoop
				}

				b.handleMessage(ctx, handler, msg)
			}
		}
	}
}

func (b *FareBroker) subscribe(ctx context.Context) (<-chan amqp.Delivery, error) {
	if err := b.Setup(ctx); err != nil {
		return nil, err
	}

	ch, err := b.client.Channel()
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(QueueFarePredictions, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue failed: %w", err)
	}
	if err := ch.QueueBind(q.Name, bindingFareEvents, FareExchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue failed: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("set qos failed: %w", err)
	}

	return ch.Consume(q.Name, "", false, false, false, false, nil)
}

func (b *FareBroker) handleMessage(ctx context.Context, handler FarePredictedHandler, d amqp.Delivery) {
	var event models.FarePredictedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		metrics.RecordRabbitMQConsume(b.service, QueueFarePredictions, err)
		b.l.Error(ctx, "failed to unmarshal fare event", err)
		_ = d.Nack(false, false)
		return
	}

	msgCtx := wrap.WithPredictionID(wrap.WithRequestID(ctx, d.CorrelationId), event.PredictionID.String())

	err := handler(msgCtx, event)
	metrics.RecordRabbitMQConsume(b.service, QueueFarePredictions, err)
	if err != nil {
		b.l.Error(wrap.ErrorCtx(msgCtx, err), "failed to handle fare event", err)
		if isRecoverableError(err) {
			_ = d.Nack(false, true)
		} else {
			_ = d.Nack(false, false)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		b.l.Error(msgCtx, "failed to ack message", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/Temutjin2k/fair-fares/pkg/metrics"
	"github.com/Temutjin2k/fair-fares/pkg/rabbit"
)

const (
	ExchangeFareTopic = "fare_topic"
	// BindingFareRecords matches every fare record event.
	BindingFareRecords = "fare.record.*"

	publishAttempts = 3
	publishBackoff  = 500 * time.Millisecond
	reconnectDelay  = 2 * time.Second

	serviceName = "fare-service"
)

// FareBroker publishes fare events on the fare topic and consumes them for the
// dashboard push. Each server instance consumes through its own exclusive queue,
// so every instance sees every event and relays it to the websockets it holds.
type FareBroker struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewFareBroker(client *rabbit.RabbitMQ, l logger.Logger) *FareBroker {
	return &FareBroker{client: client, l: l}
}

// DeclareTopology declares the durable fare topic exchange.
func (b *FareBroker) DeclareTopology(ctx context.Context) error {
	const op = "FareBroker.DeclareTopology"

	ch, err := b.client.Channel()
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if err := ch.ExchangeDeclare(ExchangeFareTopic, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return wrap.Error(wrap.WithAction(ctx, "declare_exchange"), fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// PublishFareEvent publishes ev with its type as the routing key.
func (b *FareBroker) PublishFareEvent(ctx context.Context, ev models.FareEvent) (err error) {
	const op = "FareBroker.PublishFareEvent"
	ctx = wrap.WithRecordID(wrap.WithUserID(wrap.WithAction(ctx, types.ActionPublishEvent), ev.SRCode), strconv.FormatInt(ev.RecordID, 10))
	key := ev.Type.String()

	defer func() { metrics.RecordRabbitMQPublish(serviceName, key, err) }()

	body, err := json.Marshal(ev)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: marshal: %w", op, err))
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		Timestamp:     ev.OccurredAt,
		Type:          key,
		CorrelationId: wrap.GetRequestID(ctx),
	}

	err = retry(ctx, publishAttempts, publishBackoff, func() error {
		if err := b.client.EnsureConnection(ctx); err != nil {
			return err
		}
		ch, err := b.client.Channel()
		if err != nil {
			return err
		}
		return ch.PublishWithContext(ctx, ExchangeFareTopic, key, false, false, pub)
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: publish: %w", op, err))
	}

	b.l.Debug(ctx, "fare event published", "routing_key", key)
	return nil
}

type FareEventHandlerFunc func(ctx context.Context, ev models.FareEvent) error

// ConsumeFareEvents blocks, delivering every fare event to fn until ctx is done.
// A broken connection is re-established and the subscription renewed.
func (b *FareBroker) ConsumeFareEvents(ctx context.Context, fn FareEventHandlerFunc) error {
	ctx = wrap.WithAction(ctx, types.ActionConsumeEvent)

	for {
		if ctx.Err() != nil {
			b.l.Debug(ctx, "fare event consumer stopped by context")
			return nil
		}

		msgs, queue, err := b.subscribe(ctx)
		if err != nil {
			b.l.Error(ctx, "subscribe failed", err)
			if !sleepCtx(ctx, reconnectDelay) {
				return nil
			}
			continue
		}

		b.l.Info(ctx, "start consuming fare events", "queue", queue)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				b.l.Info(ctx, "fare event consumer shutting down")
				return nil
			case msg, ok := <-msgs:
				if !ok {
					b.l.Warn(ctx, "message channel closed, reconnecting...")
					break consumeLoop
				}
				b.handle(ctx, queue, fn, msg)
			}
		}

		if !sleepCtx(ctx, reconnectDelay) {
			return nil
		}
	}
}

func (b *FareBroker) subscribe(ctx context.Context) (<-chan amqp.Delivery, string, error) {
	if err := b.client.EnsureConnection(ctx); err != nil {
		return nil, "", err
	}
	if err := b.DeclareTopology(ctx); err != nil {
		return nil, "", err
	}

	ch, err := b.client.Channel()
	if err != nil {
		return nil, "", err
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, "", fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, BindingFareRecords, ExchangeFareTopic, false, nil); err != nil {
		return nil, "", fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.Name, "", false, true, false, false, nil)
	if err != nil {
		return nil, "", fmt.Errorf("consume: %w", err)
	}
	return msgs, q.Name, nil
}

func (b *FareBroker) handle(ctx context.Context, queue string, fn FareEventHandlerFunc, msg amqp.Delivery) {
	ev, err := decodeFareEvent(msg.Body)
	if err != nil {
		b.l.Error(ctx, "decode failed", err)
		metrics.RecordRabbitMQConsume(serviceName, queue, err)
		_ = msg.Reject(false)
		return
	}

	ctx = wrap.WithRequestID(wrap.WithUserID(ctx, ev.SRCode), msg.CorrelationId)

	err = fn(ctx, ev)
	metrics.RecordRabbitMQConsume(serviceName, queue, err)
	if err != nil {
		// dashboards are best-effort, a failed relay is not retried
		b.l.Warn(ctx, "failed to handle fare event", "error", err.Error())
		_ = msg.Reject(false)
		return
	}

	if err := msg.Ack(false); err != nil {
		b.l.Warn(ctx, "ack failed", "error", err.Error())
	}
}

func decodeFareEvent(body []byte) (models.FareEvent, error) {
	var ev models.FareEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return models.FareEvent{}, fmt.Errorf("unmarshal fare event: %w", err)
	}
	if ev.SRCode == "" || !ev.Type.Valid() {
		return models.FareEvent{}, fmt.Errorf("malformed fare event %q for %q", ev.Type, ev.SRCode)
	}
	return ev, nil
}

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"clinic-booking-core/internal/domain/entity"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQGateway publishes booking events to a topic exchange, keyed by event type
type RabbitMQGateway struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbitMQGateway(url, exchange string) (*RabbitMQGateway, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitMQGateway{conn: conn, ch: ch, exchange: exchange}, nil
}

func (g *RabbitMQGateway) Emit(ctx context.Context, event entity.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.ch.PublishWithContext(ctx, g.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID.String(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	})
}

func (g *RabbitMQGateway) Close() error {
	if g.ch != nil {
		_ = g.ch.Close()
	}
	if g.conn != nil {
		return g.conn.Close()
	}
	return nil
}

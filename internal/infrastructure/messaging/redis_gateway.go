package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/domain/gateway"

	"github.com/redis/go-redis/v9"
)

type redisGateway struct {
	client  *redis.Client
	channel string
}

// NewRedisGateway publishes booking events as JSON on a Redis pub/sub channel
func NewRedisGateway(client *redis.Client, channel string) gateway.NotificationGateway {
	return &redisGateway{client: client, channel: channel}
}

func (g *redisGateway) Emit(ctx context.Context, event entity.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	if err := g.client.Publish(ctx, g.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

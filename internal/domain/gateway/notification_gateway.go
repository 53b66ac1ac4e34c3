package gateway

import (
	"context"

	"clinic-booking-core/internal/domain/entity"
)

// NotificationGateway receives booking domain events after they are committed
type NotificationGateway interface {
	Emit(ctx context.Context, event entity.BookingEvent) error
}

package messaging

import (
	"context"

	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/domain/gateway"

	"github.com/sirupsen/logrus"
)

type logGateway struct {
	log *logrus.Logger
}

// NewLogGateway writes events to the application log. Used when no broker is configured.
func NewLogGateway(log *logrus.Logger) gateway.NotificationGateway {
	return &logGateway{log: log}
}

func (g *logGateway) Emit(_ context.Context, event entity.BookingEvent) error {
	g.log.WithFields(logrus.Fields{
		"event":      event.Type,
		"booking_id": event.BookingID,
		"doctor_id":  event.DoctorID,
		"patient_id": event.PatientID,
		"slot_id":    event.SlotID,
		"date":       event.Date,
		"start_time": event.StartTime,
		"shift":      event.Shift,
	}).Info("Booking event")
	return nil
}

package worker

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/service/content"
	"github.com/rs/zerolog"
	kafkaGo "github.com/segmentio/kafka-go"
)

type NotificationCreator interface {
	CreateNotification(ctx context.Context, input content.NotificationInput) (*domain.Notification, error)
}

type Mailer interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

// Notifier turns booking events into in-app notifications and emails.
type Notifier struct {
	notifications NotificationCreator
	mailer        Mailer
	logger        *zerolog.Logger
}

func NewNotifier(notifications NotificationCreator, mailer Mailer, logger *zerolog.Logger) *Notifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Notifier{notifications: notifications, mailer: mailer, logger: logger}
}

// Handle never fails on a malformed message so the consumer keeps moving.
// Delivery failures are logged; the event is not retried.
func (n *Notifier) Handle(ctx context.Context, msg kafkaGo.Message) error {
	event, err := kafka.DecodeBookingEvent(msg)
	if err != nil {
		n.logger.Warn().Err(err).Msg("skipping malformed booking event")
		return nil
	}

	log := n.logger.With().Str("event", event.Type).Str("booking_id", event.BookingID).Logger()

	if event.UserID != "" && n.notifications != nil {
		title, message := describe(event)
		if _, err := n.notifications.CreateNotification(ctx, content.NotificationInput{
			UserID:  event.UserID,
			Title:   title,
			Message: message,
			Type:    notificationType(event.Type),
		}); err != nil {
			log.Error().Err(err).Msg("failed to create notification")
		}
	}

	if n.mailer != nil {
		if err := n.mailer.Send(ctx, event); err != nil {
			log.Error().Err(err).Msg("failed to send email")
		}
	}

	log.Debug().Msg("booking event handled")
	return nil
}

func describe(event kafka.BookingEvent) (string, string) {
	title := event.PackageTitle
	if title == "" {
		title = "your trip"
	}
	switch event.Type {
	case kafka.EventBookingCreated:
		return "Booking received", fmt.Sprintf("Your booking for %s was received.", title)
	case kafka.EventBookingStatusChanged:
		return "Booking updated", fmt.Sprintf("Your booking for %s is now %s.", title, event.Status)
	case kafka.EventBookingDeleted:
		return "Booking removed", fmt.Sprintf("Your booking for %s was removed.", title)
	case kafka.EventPaymentCompleted:
		return "Payment received", fmt.Sprintf("We received your payment of %.2f for %s.", event.Amount, title)
	case kafka.EventPaymentExpired:
		return "Checkout expired", fmt.Sprintf("The checkout for %s expired before payment.", title)
	default:
		return "Booking update", fmt.Sprintf("There is an update on your booking for %s.", title)
	}
}

func notificationType(eventType string) string {
	switch eventType {
	case kafka.EventPaymentCompleted, kafka.EventPaymentExpired:
		return "payment"
	default:
		return "booking"
	}
}

package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	from   string
	dialer Dialer
	logger *zerolog.Logger
}

// NewSender returns a sender that only logs when SMTP is not configured.
func NewSender(cfg config.SMTPConfig, logger *zerolog.Logger) *Sender {
	var dialer Dialer
	if cfg.Enabled() {
		dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return NewSenderWithDialer(cfg.From, dialer, logger)
}

func NewSenderWithDialer(from string, dialer Dialer, logger *zerolog.Logger) *Sender {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Sender{from: from, dialer: dialer, logger: logger}
}

// Send mails the customer about a booking event.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		return nil
	}
	subject, body := render(event)
	return s.Notify(ctx, event.Email, subject, body)
}

func (s *Sender) Notify(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.dialer == nil {
		s.logger.Info().Str("to", to).Str("subject", subject).Msg("smtp disabled, email skipped")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func render(event kafka.BookingEvent) (string, string) {
	title := event.PackageTitle
	if title == "" {
		title = "your trip"
	}

	var b strings.Builder
	var subject string
	switch event.Type {
	case kafka.EventPaymentCompleted:
		subject = "Payment received for " + title
		fmt.Fprintf(&b, "We received your payment of %.2f. Your booking %s is confirmed.\n", event.Amount, event.BookingID)
	case kafka.EventBookingCreated:
		subject = "Booking received: " + title
		fmt.Fprintf(&b, "Your booking %s has been received and is %s.\n", event.BookingID, event.Status)
	case kafka.EventBookingStatusChanged:
		subject = fmt.Sprintf("Booking %s: %s", strings.ToLower(event.Status), title)
		fmt.Fprintf(&b, "Your booking %s is now %s.\n", event.BookingID, event.Status)
	case kafka.EventPaymentExpired:
		subject = "Checkout expired for " + title
		fmt.Fprintf(&b, "The checkout for booking %s expired before payment was completed.\n", event.BookingID)
	default:
		subject = "Booking update: " + title
		fmt.Fprintf(&b, "Booking %s is now %s.\n", event.BookingID, event.Status)
	}
	return subject, b.String()
}

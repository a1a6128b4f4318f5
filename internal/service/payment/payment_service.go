package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/checkout"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type PaymentUseCase interface {
	CreateCheckout(ctx context.Context, principal *identity.Principal, input CheckoutInput) (*CheckoutResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ListTransactions(ctx context.Context, status string) ([]domain.Transaction, error)
	ListMine(ctx context.Context, principal *identity.Principal) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, principal *identity.Principal, id string) (*domain.Transaction, error)
	ExpireStale(ctx context.Context) (int, error)
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req checkout.SessionRequest) (*checkout.Session, error)
	ParseWebhook(payload []byte, signature string) (*checkout.WebhookEvent, error)
}

// EventDeduper remembers processed webhook event ids.
type EventDeduper interface {
	MarkEventProcessed(ctx context.Context, eventID string) (bool, error)
	ForgetEvent(ctx context.Context, eventID string) error
}

type PaymentService struct {
	transactions       repository.TransactionRepository
	bookings           repository.BookingRepository
	packages           repository.PackageRepository
	gateway            Gateway
	currency           string
	deduper            EventDeduper
	producer           booking.Producer
	bookingTopic       string
	notificationsTopic string
	pendingTTL         time.Duration
	now                func() time.Time
	logger             *zerolog.Logger
}

type PaymentServiceOption func(*PaymentService)

func WithDeduper(deduper EventDeduper) PaymentServiceOption {
	return func(s *PaymentService) {
		s.deduper = deduper
	}
}

func WithEvents(producer booking.Producer, bookingTopic, notificationsTopic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithPendingTTL(ttl time.Duration) PaymentServiceOption {
	return func(s *PaymentService) {
		s.pendingTTL = ttl
	}
}

func WithLogger(logger *zerolog.Logger) PaymentServiceOption {
	return func(s *PaymentService) {
		s.logger = logger
	}
}

// NewPaymentService builds the service. A nil gateway disables checkout and
// webhooks with ErrUnavailable.
func NewPaymentService(
	transactions repository.TransactionRepository,
	bookings repository.BookingRepository,
	packages repository.PackageRepository,
	gateway Gateway,
	currency string,
	opts ...PaymentServiceOption,
) *PaymentService {
	nop := zerolog.Nop()
	s := &PaymentService{
		transactions: transactions,
		bookings:     bookings,
		packages:     packages,
		gateway:      gateway,
		currency:     currency,
		pendingTTL:   24 * time.Hour,
		now:          time.Now,
		logger:       &nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CheckoutUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckoutBilling struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type CheckoutPackage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CheckoutPricing struct {
	Adults    int     `json:"adults"`
	Children  int     `json:"children"`
	TotalCost float64 `json:"totalCost"`
}

type CheckoutInput struct {
	User       CheckoutUser    `json:"user"`
	Billing    CheckoutBilling `json:"billing"`
	Package    CheckoutPackage `json:"package"`
	Pricing    CheckoutPricing `json:"pricing"`
	TravelDate string          `json:"travelDate"`
}

type CheckoutResult struct {
	URL           string `json:"url"`
	SessionID     string `json:"sessionId"`
	TransactionID string `json:"transactionId"`
	BookingID     string `json:"bookingId"`
}

// AmountInMinorUnits converts a decimal total to cents, rounding half away
// from zero.
func AmountInMinorUnits(total float64) int64 {
	return int64(math.Round(total * 100))
}

var errPaymentsDisabled = fmt.Errorf("%w: payments are not configured", domain.ErrUnavailable)

// CreateCheckout opens a Stripe session and stores a pending transaction with
// its pending booking.
func (s *PaymentService) CreateCheckout(ctx context.Context, principal *identity.Principal, input CheckoutInput) (*CheckoutResult, error) {
	if s.gateway == nil {
		return nil, errPaymentsDisabled
	}
	if input.Package.ID == "" {
		return nil, fmt.Errorf("%w: package id is required", domain.ErrInvalidInput)
	}
	amount := AmountInMinorUnits(input.Pricing.TotalCost)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: total cost must be positive", domain.ErrInvalidInput)
	}
	if input.Pricing.Adults < 0 || input.Pricing.Children < 0 {
		return nil, fmt.Errorf("%w: traveller counts must not be negative", domain.ErrInvalidInput)
	}
	travelDate, err := booking.ParseTravelDate(input.TravelDate)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packages.GetByID(ctx, input.Package.ID)
	if err != nil {
		return nil, err
	}

	email := firstNonEmpty(input.Billing.Email, input.User.Email, principal.Email)
	txnID := uuid.NewString()
	bookingID := uuid.NewString()

	session, err := s.gateway.CreateCheckoutSession(ctx, checkout.SessionRequest{
		Title:         pkg.Title,
		Amount:        amount,
		CustomerEmail: email,
		Metadata: map[string]string{
			"userId":        principal.UID,
			"packageId":     pkg.ID,
			"transactionId": txnID,
			"bookingId":     bookingID,
		},
	})
	if err != nil {
		metrics.IncCheckout("stripe_error")
		return nil, err
	}

	txn := &domain.Transaction{
		ID:            txnID,
		SessionID:     session.ID,
		UserID:        principal.UID,
		PackageID:     pkg.ID,
		BookingID:     bookingID,
		Amount:        amount,
		Currency:      s.currency,
		Status:        domain.TransactionStatusPending,
		CustomerEmail: email,
	}
	adults := input.Pricing.Adults
	if adults == 0 && input.Pricing.Children == 0 {
		adults = 1
	}
	b := &domain.Booking{
		ID:            bookingID,
		UserID:        principal.UID,
		PackageID:     pkg.ID,
		TransactionID: txnID,
		PackageTitle:  pkg.Title,
		FullName:      firstNonEmpty(input.Billing.FullName, input.User.Name),
		Email:         email,
		Phone:         input.Billing.Phone,
		Address:       input.Billing.Address,
		Adults:        adults,
		Children:      input.Pricing.Children,
		TravelDate:    travelDate,
		TotalAmount:   float64(amount) / 100,
		Status:        domain.BookingStatusPending,
	}
	if err := s.transactions.CreateCheckout(ctx, txn, b); err != nil {
		metrics.IncCheckout("store_error")
		return nil, err
	}

	metrics.IncCheckout("created")
	s.publish(ctx, kafka.EventBookingCreated, b)
	s.logger.Info().Str("session_id", session.ID).Str("transaction_id", txnID).Int64("amount", amount).Msg("checkout session created")

	return &CheckoutResult{URL: session.URL, SessionID: session.ID, TransactionID: txnID, BookingID: bookingID}, nil
}

// HandleWebhook verifies and applies a Stripe event. Only completed checkout
// sessions change state; a redelivered event confirms nothing twice.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return errPaymentsDisabled
	}
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		metrics.IncWebhook("unknown", "rejected")
		return err
	}
	if event.Type != checkout.EventCheckoutSessionCompleted {
		metrics.IncWebhook(event.Type, "ignored")
		return nil
	}

	if s.deduper != nil {
		first, err := s.deduper.MarkEventProcessed(ctx, event.ID)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("webhook de-duplication unavailable")
		case !first:
			metrics.IncWebhook(event.Type, "duplicate")
			return nil
		}
	}

	if err := s.completeCheckout(ctx, event); err != nil {
		if s.deduper != nil {
			if ferr := s.deduper.ForgetEvent(ctx, event.ID); ferr != nil {
				s.logger.Warn().Err(ferr).Str("event_id", event.ID).Msg("failed to release webhook event")
			}
		}
		metrics.IncWebhook(event.Type, "error")
		return err
	}
	return nil
}

func (s *PaymentService) completeCheckout(ctx context.Context, event *checkout.WebhookEvent) error {
	confirm := func(ctx context.Context, txn *domain.Transaction) (*domain.Booking, error) {
		return s.confirmedBooking(ctx, txn, event)
	}
	txn, b, transitioned, err := s.transactions.CompletePayment(ctx, event.SessionID, confirm)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Str("session_id", event.SessionID).Msg("webhook for unknown checkout session")
			metrics.IncWebhook(event.Type, "unknown_session")
			return nil
		}
		return err
	}
	if !transitioned {
		metrics.IncWebhook(event.Type, "already_paid")
		return nil
	}

	metrics.IncWebhook(event.Type, "processed")
	s.publish(ctx, kafka.EventPaymentCompleted, b)
	s.logger.Info().Str("transaction_id", txn.ID).Str("booking_id", b.ID).Msg("checkout completed")
	return nil
}

// confirmedBooking returns the booking stored at checkout, or rebuilds one
// from the transaction when it has been removed since.
func (s *PaymentService) confirmedBooking(ctx context.Context, txn *domain.Transaction, event *checkout.WebhookEvent) (*domain.Booking, error) {
	if txn.BookingID != "" {
		b, err := s.bookings.GetByID(ctx, txn.BookingID)
		if err == nil {
			b.Status = domain.BookingStatusConfirmed
			b.TransactionID = txn.ID
			return b, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	b := &domain.Booking{
		ID:            firstNonEmpty(txn.BookingID, uuid.NewString()),
		UserID:        txn.UserID,
		PackageID:     txn.PackageID,
		TransactionID: txn.ID,
		Email:         firstNonEmpty(txn.CustomerEmail, event.CustomerEmail),
		Adults:        1,
		TravelDate:    s.now().UTC(),
		TotalAmount:   float64(txn.Amount) / 100,
		Status:        domain.BookingStatusConfirmed,
	}
	if pkg, err := s.packages.GetByID(ctx, txn.PackageID); err == nil {
		b.PackageTitle = pkg.Title
	}
	return b, nil
}

func (s *PaymentService) ListTransactions(ctx context.Context, status string) ([]domain.Transaction, error) {
	st := domain.TransactionStatus(strings.ToLower(strings.TrimSpace(status)))
	switch st {
	case "", domain.TransactionStatusPending, domain.TransactionStatusPaid, domain.TransactionStatusExpired:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.transactions.List(ctx, st, "")
}

func (s *PaymentService) ListMine(ctx context.Context, principal *identity.Principal) ([]domain.Transaction, error) {
	return s.transactions.List(ctx, "", principal.UID)
}

func (s *PaymentService) GetTransaction(ctx context.Context, principal *identity.Principal, id string) (*domain.Transaction, error) {
	txn, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.UserID != principal.UID && !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: transaction belongs to another user", domain.ErrForbidden)
	}
	return txn, nil
}

// ExpireStale marks pending transactions older than the pending TTL as
// expired and cancels their pending bookings.
func (s *PaymentService) ExpireStale(ctx context.Context) (int, error) {
	expired, cancelled, err := s.transactions.ExpirePendingBefore(ctx, s.now().Add(-s.pendingTTL))
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	for _, t := range expired {
		s.publish(ctx, kafka.EventPaymentExpired, &domain.Booking{
			ID:            t.BookingID,
			UserID:        t.UserID,
			PackageID:     t.PackageID,
			TransactionID: t.ID,
			Email:         t.CustomerEmail,
			TotalAmount:   float64(t.Amount) / 100,
			Status:        domain.BookingStatusCancelled,
		})
	}
	s.logger.Info().Int("transactions", len(expired)).Int64("bookings", cancelled).Msg("expired stale checkouts")
	return len(expired), nil
}

func (s *PaymentService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if err := booking.Publish(ctx, s.producer, s.bookingTopic, s.notificationsTopic, eventType, b); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", b.ID).Str("event", eventType).Msg("failed to publish payment event")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

var _ PaymentUseCase = (*PaymentService)(nil)

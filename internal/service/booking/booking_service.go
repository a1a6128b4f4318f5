package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/export"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BookingUseCase interface {
	ListMine(ctx context.Context, principal *identity.Principal) ([]domain.Booking, error)
	GetBooking(ctx context.Context, principal *identity.Principal, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	ExportBookings(ctx context.Context, w io.Writer, filter domain.BookingFilter) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	packages           repository.PackageRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	logger             *zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger *zerolog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	packages repository.PackageRepository,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	nop := zerolog.Nop()
	service := &BookingService{
		bookings:     bookings,
		packages:     packages,
		producer:     producer,
		bookingTopic: bookingTopic,
		logger:       &nop,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type CreateBookingInput struct {
	UserID      string  `json:"userId"`
	PackageID   string  `json:"packageId"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Adults      int     `json:"adults"`
	Children    int     `json:"children"`
	TravelDate  string  `json:"travelDate"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
}

func (s *BookingService) ListMine(ctx context.Context, principal *identity.Principal) ([]domain.Booking, error) {
	return s.bookings.List(ctx, domain.BookingFilter{UserID: principal.UID})
}

func (s *BookingService) GetBooking(ctx context.Context, principal *identity.Principal, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != principal.UID && !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: booking belongs to another user", domain.ErrForbidden)
	}
	return b, nil
}

func (s *BookingService) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.List(ctx, filter)
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.UserID == "" || input.PackageID == "" {
		return nil, fmt.Errorf("%w: userId and packageId are required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: fullName and email are required", domain.ErrInvalidInput)
	}
	if input.Adults < 0 || input.Children < 0 || input.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: counts and amount must not be negative", domain.ErrInvalidInput)
	}
	if input.Adults == 0 && input.Children == 0 {
		input.Adults = 1
	}

	status := domain.BookingStatusPending
	if input.Status != "" {
		parsed, ok := domain.ParseBookingStatus(input.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
		}
		status = parsed
	}

	travelDate, err := ParseTravelDate(input.TravelDate)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packages.GetByID(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:           uuid.NewString(),
		UserID:       input.UserID,
		PackageID:    pkg.ID,
		PackageTitle: pkg.Title,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
		Phone:        input.Phone,
		Address:      input.Address,
		Adults:       input.Adults,
		Children:     input.Children,
		TravelDate:   travelDate,
		TotalAmount:  input.TotalAmount,
		Status:       status,
		Notes:        input.Notes,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, id, status string) (*domain.Booking, error) {
	parsed, ok := domain.ParseBookingStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == parsed {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kafka.EventBookingStatusChanged, updated)
	return updated, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, kafka.EventBookingDeleted, current)
	return nil
}

func (s *BookingService) ExportBookings(ctx context.Context, w io.Writer, filter domain.BookingFilter) error {
	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return err
	}
	return export.WriteBookingsXLSX(w, bookings)
}

// ParseTravelDate accepts YYYY-MM-DD or RFC 3339. An empty value means today.
func ParseTravelDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: travelDate must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return t, nil
}

// publish never fails the caller; events are best effort.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if err := Publish(ctx, s.producer, s.bookingTopic, s.notificationsTopic, eventType, booking); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", booking.ID).Str("event", eventType).Msg("failed to publish booking event")
	}
}

// Publish sends a booking event to the booking topic and, when set, the
// notifications topic.
func Publish(ctx context.Context, producer Producer, bookingTopic, notificationsTopic, eventType string, booking *domain.Booking) error {
	if producer == nil || bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		TransactionID: booking.TransactionID,
		UserID:        booking.UserID,
		Email:         booking.Email,
		PackageTitle:  booking.PackageTitle,
		Status:        string(booking.Status),
		Amount:        booking.TotalAmount,
		OccurredAt:    time.Now().UTC(),
	}
	var errs []error
	if err := send(ctx, producer, bookingTopic, booking.ID, event); err != nil {
		errs = append(errs, err)
	}
	if notificationsTopic != "" {
		if err := send(ctx, producer, notificationsTopic, booking.ID, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RetryingProducer is implemented by *kafka.Producer.
type RetryingProducer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

const publishAttempts = 3

func send(ctx context.Context, producer Producer, topic, key string, event kafka.BookingEvent) error {
	if r, ok := producer.(RetryingProducer); ok {
		return r.PublishWithRetry(ctx, topic, key, event, publishAttempts)
	}
	return producer.Publish(ctx, topic, key, event)
}

var _ BookingUseCase = (*BookingService)(nil)

package booking

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) List(ctx context.Context, filter domain.PackageFilter) ([]domain.Package, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Package), args.Int(1), args.Error(2)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}

func (m *MockPackageRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Package, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Package), args.Error(1)
}

func (m *MockPackageRepository) Create(ctx context.Context, p *domain.Package) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, p *domain.Package) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	return m.Called(ctx, topic, key, value).Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e kafka.BookingEvent) bool { return e.Type == eventType })
}

var (
	owner = &identity.Principal{UID: "u-1", Role: domain.RoleUser}
	other = &identity.Principal{UID: "u-2", Role: domain.RoleUser}
	admin = &identity.Principal{UID: "a-1", Role: domain.RoleAdmin}
)

func TestBookingService_CreateBooking_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	packages := &MockPackageRepository{}
	producer := &MockProducer{}
	svc := NewBookingService(bookings, packages, producer, "booking-events", WithNotificationsTopic("notifications"))

	packages.On("GetByID", mock.Anything, "p-1").Return(&domain.Package{ID: "p-1", Title: "Bali"}, nil)
	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.PackageTitle == "Bali" && b.Status == domain.BookingStatusPending && b.Adults == 1
	})).Return(nil)
	producer.On("Publish", mock.Anything, "booking-events", mock.Anything, eventOfType(kafka.EventBookingCreated)).Return(nil)
	producer.On("Publish", mock.Anything, "notifications", mock.Anything, eventOfType(kafka.EventBookingCreated)).Return(nil)

	b, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		UserID:     "u-1",
		PackageID:  "p-1",
		FullName:   "Ann Lee",
		Email:      "ann@example.com",
		TravelDate: "2024-07-01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), b.TravelDate)
	bookings.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_PublishFailureIsIgnored(t *testing.T) {
	bookings := &MockBookingRepository{}
	packages := &MockPackageRepository{}
	producer := &MockProducer{}
	svc := NewBookingService(bookings, packages, producer, "booking-events")

	packages.On("GetByID", mock.Anything, "p-1").Return(&domain.Package{ID: "p-1", Title: "Bali"}, nil)
	bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		UserID: "u-1", PackageID: "p-1", FullName: "Ann", Email: "ann@example.com", Status: "Approved",
	})
	require.NoError(t, err)
}

func TestBookingService_CreateBooking_Validation(t *testing.T) {
	svc := NewBookingService(&MockBookingRepository{}, &MockPackageRepository{}, nil, "")

	tests := []struct {
		name  string
		input CreateBookingInput
	}{
		{name: "missing package", input: CreateBookingInput{UserID: "u-1", FullName: "A", Email: "a@b.c"}},
		{name: "missing name", input: CreateBookingInput{UserID: "u-1", PackageID: "p-1", Email: "a@b.c"}},
		{name: "negative adults", input: CreateBookingInput{UserID: "u-1", PackageID: "p-1", FullName: "A", Email: "a@b.c", Adults: -1}},
		{name: "unknown status", input: CreateBookingInput{UserID: "u-1", PackageID: "p-1", FullName: "A", Email: "a@b.c", Status: "Lost"}},
		{name: "bad date", input: CreateBookingInput{UserID: "u-1", PackageID: "p-1", FullName: "A", Email: "a@b.c", TravelDate: "01/07/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(context.Background(), tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestBookingService_CreateBooking_UnknownPackage(t *testing.T) {
	packages := &MockPackageRepository{}
	svc := NewBookingService(&MockBookingRepository{}, packages, nil, "")
	packages.On("GetByID", mock.Anything, "p-x").Return(nil, domain.ErrNotFound)

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{UserID: "u-1", PackageID: "p-x", FullName: "A", Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_GetBooking_Ownership(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := NewBookingService(bookings, &MockPackageRepository{}, nil, "")
	bookings.On("GetByID", mock.Anything, "b-1").Return(&domain.Booking{ID: "b-1", UserID: "u-1"}, nil)

	_, err := svc.GetBooking(context.Background(), owner, "b-1")
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), admin, "b-1")
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), other, "b-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBookingService_UpdateStatus(t *testing.T) {
	bookings := &MockBookingRepository{}
	producer := &MockProducer{}
	svc := NewBookingService(bookings, &MockPackageRepository{}, producer, "booking-events")

	bookings.On("GetByID", mock.Anything, "b-1").Return(&domain.Booking{ID: "b-1", Status: domain.BookingStatusPending}, nil)
	bookings.On("UpdateStatus", mock.Anything, "b-1", domain.BookingStatusCancelled).
		Return(&domain.Booking{ID: "b-1", Status: domain.BookingStatusCancelled}, nil)
	producer.On("Publish", mock.Anything, "booking-events", "b-1", eventOfType(kafka.EventBookingStatusChanged)).Return(nil)

	b, err := svc.UpdateStatus(context.Background(), "b-1", "Rejected")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, b.Status)
	producer.AssertExpectations(t)
}

func TestBookingService_UpdateStatus_Unchanged(t *testing.T) {
	bookings := &MockBookingRepository{}
	producer := &MockProducer{}
	svc := NewBookingService(bookings, &MockPackageRepository{}, producer, "booking-events")

	bookings.On("GetByID", mock.Anything, "b-1").Return(&domain.Booking{ID: "b-1", Status: domain.BookingStatusConfirmed}, nil)

	_, err := svc.UpdateStatus(context.Background(), "b-1", "confirmed")
	require.NoError(t, err)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_UpdateStatus_Invalid(t *testing.T) {
	svc := NewBookingService(&MockBookingRepository{}, &MockPackageRepository{}, nil, "")

	_, err := svc.UpdateStatus(context.Background(), "b-1", "Shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBookingService_DeleteBooking(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := NewBookingService(bookings, &MockPackageRepository{}, nil, "")

	bookings.On("GetByID", mock.Anything, "b-x").Return(nil, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteBooking(context.Background(), "b-x"), domain.ErrNotFound)

	bookings.On("GetByID", mock.Anything, "b-1").Return(&domain.Booking{ID: "b-1"}, nil)
	bookings.On("Delete", mock.Anything, "b-1").Return(nil)
	assert.NoError(t, svc.DeleteBooking(context.Background(), "b-1"))
}

func TestBookingService_ExportBookings(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := NewBookingService(bookings, &MockPackageRepository{}, nil, "")

	filter := domain.BookingFilter{Status: domain.BookingStatusConfirmed}
	bookings.On("List", mock.Anything, filter).Return([]domain.Booking{{ID: "b-1"}}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportBookings(context.Background(), &buf, filter))
	assert.NotZero(t, buf.Len())
}

func TestParseTravelDate(t *testing.T) {
	d, err := ParseTravelDate("2024-12-24T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 24, d.Day())

	d, err = ParseTravelDate("")
	require.NoError(t, err)
	assert.False(t, d.IsZero())
}

type MockRetryingProducer struct {
	MockProducer
}

func (m *MockRetryingProducer) PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error {
	return m.Called(ctx, topic, key, value, maxRetries).Error(0)
}

func TestPublish_UsesRetries(t *testing.T) {
	producer := &MockRetryingProducer{}
	producer.On("PublishWithRetry", mock.Anything, "booking-events", "b-1", eventOfType(kafka.EventBookingDeleted), publishAttempts).Return(nil)
	producer.On("PublishWithRetry", mock.Anything, "notifications", "b-1", eventOfType(kafka.EventBookingDeleted), publishAttempts).Return(errors.New("kafka down"))

	err := Publish(context.Background(), producer, "booking-events", "notifications", kafka.EventBookingDeleted, &domain.Booking{ID: "b-1"})
	assert.EqualError(t, err, "kafka down")
	producer.AssertExpectations(t)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

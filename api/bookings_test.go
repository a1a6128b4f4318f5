package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) ListMine(ctx context.Context, principal *identity.Principal) ([]domain.Booking, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, principal *identity.Principal, id string) (*domain.Booking, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, id, status string) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingUseCase) ExportBookings(ctx context.Context, w io.Writer, filter domain.BookingFilter) error {
	args := m.Called(ctx, w, filter)
	if args.Error(0) == nil {
		_, _ = w.Write([]byte("PK"))
	}
	return args.Error(0)
}

func newBookingRouter(svc booking.BookingUseCase) *gin.Engine {
	router := gin.New()
	NewBookingHandler(svc).Register(router.Group("/api/bookings"), Authenticate(testVerifier))
	return router
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	input := booking.CreateBookingInput{
		UserID:    "u-1",
		PackageID: "p-1",
		FullName:  "Ann Lee",
		Email:     "ann@example.com",
		Adults:    2,
	}
	body, _ := json.Marshal(input)

	mockService.On("CreateBooking", mock.Anything, input).Return(&domain.Booking{
		ID:        "b-1",
		UserID:    "u-1",
		PackageID: "p-1",
		Status:    domain.BookingStatusPending,
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer admin-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp domain.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b-1", resp.ID)
	assert.Equal(t, domain.BookingStatusPending, resp.Status)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_RequiresAdmin(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer user-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_get_Forbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("GetBooking", mock.Anything, mock.Anything, "b-2").Return(nil, domain.ErrForbidden)

	w := serve(router, http.MethodGet, "/api/bookings/b-2", "user-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"forbidden"}`, w.Body.String())
}

func TestBookingHandler_listMine(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("ListMine", mock.Anything, mock.MatchedBy(func(p *identity.Principal) bool {
		return p.UID == "u-1"
	})).Return([]domain.Booking{{ID: "b-1"}}, nil)

	w := serve(router, http.MethodGet, "/api/bookings/my", "user-token")
	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_updateStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("UpdateStatus", mock.Anything, "b-1", "Approved").
		Return(&domain.Booking{ID: "b-1", Status: domain.BookingStatusConfirmed}, nil)
	mockService.On("UpdateStatus", mock.Anything, "b-9", "Approved").Return(nil, domain.ErrNotFound)

	for id, status := range map[string]int{"b-1": http.StatusOK, "b-9": http.StatusNotFound} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/bookings/"+id+"/status", bytes.NewReader([]byte(`{"status":"Approved"}`)))
		req.Header.Set("Authorization", "Bearer admin-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, id)
	}
}

func TestBookingHandler_list_UnknownStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	w := serve(router, http.MethodGet, "/api/bookings?status=lost", "admin-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListBookings", mock.Anything, mock.Anything)
}

func TestBookingHandler_export(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(mockService)

	mockService.On("ExportBookings", mock.Anything, mock.Anything, domain.BookingFilter{Status: domain.BookingStatusConfirmed}).Return(nil)

	w := serve(router, http.MethodGet, "/api/bookings/export?status=confirmed", "admin-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bookings.xlsx")
	assert.Equal(t, "PK", w.Body.String())
}

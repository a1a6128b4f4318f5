package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/wishlist"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWishlistUseCase struct {
	mock.Mock
}

func (m *MockWishlistUseCase) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *MockWishlistUseCase) Add(ctx context.Context, userID, packageID string) (*domain.Wishlist, error) {
	args := m.Called(ctx, userID, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *MockWishlistUseCase) Remove(ctx context.Context, userID, packageID string) (*domain.Wishlist, error) {
	args := m.Called(ctx, userID, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

var _ wishlist.WishlistUseCase = (*MockWishlistUseCase)(nil)

func newWishlistRouter(svc wishlist.WishlistUseCase) *gin.Engine {
	router := gin.New()
	NewWishlistHandler(svc).Register(router.Group("/api/wishlist"), Authenticate(testVerifier))
	return router
}

func TestWishlistHandler_RequiresAuth(t *testing.T) {
	mockService := &MockWishlistUseCase{}
	router := newWishlistRouter(mockService)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/wishlist", "").Code)
	mockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestWishlistHandler_getUsesCaller(t *testing.T) {
	mockService := &MockWishlistUseCase{}
	router := newWishlistRouter(mockService)

	mockService.On("Get", mock.Anything, "u-1").
		Return(&domain.Wishlist{UserID: "u-1", Packages: []domain.Package{{ID: "p-1", Title: "Bali"}}}, nil)

	w := serve(router, http.MethodGet, "/api/wishlist", "user-token")
	require.Equal(t, http.StatusOK, w.Code)
	var resp domain.Wishlist
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u-1", resp.UserID)
	require.Len(t, resp.Packages, 1)
	assert.Equal(t, "Bali", resp.Packages[0].Title)
}

func TestWishlistHandler_addAndRemove(t *testing.T) {
	mockService := &MockWishlistUseCase{}
	router := newWishlistRouter(mockService)

	mockService.On("Add", mock.Anything, "u-1", "p-1").
		Return(&domain.Wishlist{UserID: "u-1", Packages: []domain.Package{{ID: "p-1"}}}, nil)
	mockService.On("Add", mock.Anything, "u-1", "p-404").
		Return(nil, fmt.Errorf("package p-404: %w", domain.ErrNotFound))
	mockService.On("Remove", mock.Anything, "u-1", "p-1").
		Return(&domain.Wishlist{UserID: "u-1", Packages: []domain.Package{}}, nil)

	w := serveJSON(router, http.MethodPost, "/api/wishlist", "user-token", `{"packageId":"p-1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serveJSON(router, http.MethodPost, "/api/wishlist", "user-token", `{"packageId":"p-404"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodDelete, "/api/wishlist/p-1", "user-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"u-1","packages":[]}`, w.Body.String())
	mockService.AssertExpectations(t)
}

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/account"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountUseCase struct {
	account.AccountUseCase
	mock.Mock
}

func (m *MockAccountUseCase) Register(ctx context.Context, input account.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountUseCase) SetRole(ctx context.Context, uid string, role domain.Role) error {
	return m.Called(ctx, uid, role).Error(0)
}

func newAccountRouter(svc account.AccountUseCase) *gin.Engine {
	router := gin.New()
	h := NewAccountHandler(svc)
	h.RegisterAuth(router.Group("/api/auth"))
	h.RegisterUsers(router.Group("/api/users"), Authenticate(testVerifier))
	return router
}

func TestAccountHandler_register(t *testing.T) {
	mockService := &MockAccountUseCase{}
	router := newAccountRouter(mockService)

	input := account.RegisterInput{Name: "Ann Lee", Email: "ann@example.com", Password: "secret123"}
	mockService.On("Register", mock.Anything, input).
		Return(&domain.User{ID: "u-1", Name: "Ann Lee", Email: "ann@example.com", Role: domain.RoleUser, PasswordHash: "hash"}, nil).Once()
	mockService.On("Register", mock.Anything, input).
		Return(nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)).Once()

	body := `{"name":"Ann Lee","email":"ann@example.com","password":"secret123"}`

	w := serveJSON(router, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u-1", resp["id"])
	assert.Equal(t, "user", resp["role"])
	assert.NotContains(t, resp, "passwordHash")

	w = serveJSON(router, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"already exists: user already exists"}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestAccountHandler_register_MalformedBody(t *testing.T) {
	mockService := &MockAccountUseCase{}
	router := newAccountRouter(mockService)

	w := serveJSON(router, http.MethodPost, "/api/auth/register", "", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAccountHandler_setRole(t *testing.T) {
	mockService := &MockAccountUseCase{}
	router := newAccountRouter(mockService)

	mockService.On("SetRole", mock.Anything, "u-2", domain.RoleAdmin).Return(nil)
	mockService.On("SetRole", mock.Anything, "ghost", domain.RoleAdmin).Return(fmt.Errorf("user ghost: %w", domain.ErrNotFound))

	w := serveJSON(router, http.MethodPut, "/api/users/u-2/role", "user-token", `{"role":"admin"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serveJSON(router, http.MethodPut, "/api/users/u-2/role", "admin-token", `{"role":"admin"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"role updated","uid":"u-2","role":"admin"}`, w.Body.String())

	w = serveJSON(router, http.MethodPut, "/api/users/ghost/role", "admin-token", `{"role":"admin"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

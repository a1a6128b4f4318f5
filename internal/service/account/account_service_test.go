package account

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Identity), args.Error(1)
}

func (m *MockDirectory) SetRole(ctx context.Context, uid string, role domain.Role) error {
	return m.Called(ctx, uid, role).Error(0)
}

func (m *MockDirectory) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(user *domain.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func TestAccountService_Register(t *testing.T) {
	users := &MockUserRepository{}
	svc := NewAccountService(users, &MockDirectory{}, WithTokenIssuer(&MockIssuer{}))

	users.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, domain.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ann@example.com" && u.Role == domain.RoleUser && identity.CheckPassword(u.PasswordHash, "secret1")
	})).Return(nil)

	user, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: " Ann@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ann", user.Name)
	users.AssertExpectations(t)
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	users := &MockUserRepository{}
	svc := NewAccountService(users, &MockDirectory{}, WithTokenIssuer(&MockIssuer{}))

	users.On("GetByEmail", mock.Anything, "ann@example.com").Return(&domain.User{ID: "u-1"}, nil)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Register_RaceOnUniqueEmail(t *testing.T) {
	users := &MockUserRepository{}
	svc := NewAccountService(users, &MockDirectory{}, WithTokenIssuer(&MockIssuer{}))

	users.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, domain.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAccountService_Register_Validation(t *testing.T) {
	svc := NewAccountService(&MockUserRepository{}, &MockDirectory{}, WithTokenIssuer(&MockIssuer{}))

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{name: "missing name", input: RegisterInput{Email: "a@b.c", Password: "secret1"}},
		{name: "bad email", input: RegisterInput{Name: "A", Email: "nope", Password: "secret1"}},
		{name: "short password", input: RegisterInput{Name: "A", Email: "a@b.c", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAccountService_Register_ExternalProvider(t *testing.T) {
	svc := NewAccountService(&MockUserRepository{}, &MockDirectory{})

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.c", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAccountService_Login(t *testing.T) {
	hash, err := identity.HashPassword("secret1")
	require.NoError(t, err)
	stored := &domain.User{ID: "u-1", Email: "ann@example.com", Role: domain.RoleUser, PasswordHash: hash}

	users := &MockUserRepository{}
	issuer := &MockIssuer{}
	svc := NewAccountService(users, &MockDirectory{}, WithTokenIssuer(issuer))

	users.On("GetByEmail", mock.Anything, "ann@example.com").Return(stored, nil)
	users.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, domain.ErrNotFound)
	issuer.On("Issue", stored).Return("token-1", nil)

	res, err := svc.Login(context.Background(), LoginInput{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", res.Token)
	assert.Equal(t, "u-1", res.User.ID)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Login(context.Background(), LoginInput{Email: "bob@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAccountService_Me_WithoutProfile(t *testing.T) {
	users := &MockUserRepository{}
	svc := NewAccountService(users, &MockDirectory{})
	users.On("GetByID", mock.Anything, "fb-1").Return(nil, domain.ErrNotFound)

	me, err := svc.Me(context.Background(), &identity.Principal{UID: "fb-1", Email: "ann@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "fb-1", me.ID)
	assert.Equal(t, "ann@example.com", me.Email)
}

func TestAccountService_SetRole(t *testing.T) {
	users := &MockUserRepository{}
	dir := &MockDirectory{}
	svc := NewAccountService(users, dir)

	dir.On("SetRole", mock.Anything, "fb-1", domain.RoleAdmin).Return(nil)
	users.On("UpdateRole", mock.Anything, "fb-1", domain.RoleAdmin).Return(domain.ErrNotFound)

	require.NoError(t, svc.SetRole(context.Background(), "fb-1", domain.RoleAdmin))
	assert.ErrorIs(t, svc.SetRole(context.Background(), "fb-1", "root"), domain.ErrInvalidInput)
	dir.AssertExpectations(t)
}

func TestAccountService_SetRole_UnknownUser(t *testing.T) {
	users := &MockUserRepository{}
	dir := &MockDirectory{}
	svc := NewAccountService(users, dir)

	dir.On("SetRole", mock.Anything, "ghost", domain.RoleAdmin).Return(fmt.Errorf("user ghost: %w", domain.ErrNotFound))

	err := svc.SetRole(context.Background(), "ghost", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_SetRole_LocalDirectory(t *testing.T) {
	users := &MockUserRepository{}
	svc := NewAccountService(users, identity.NewLocalDirectory(users))

	users.On("GetByID", mock.Anything, "u-1").Return(&domain.User{ID: "u-1", Role: domain.RoleUser}, nil)
	users.On("UpdateRole", mock.Anything, "u-1", domain.RoleAdmin).Return(nil)
	users.On("GetByID", mock.Anything, "ghost").Return(nil, fmt.Errorf("user: %w", domain.ErrNotFound))

	require.NoError(t, svc.SetRole(context.Background(), "u-1", domain.RoleAdmin))
	assert.ErrorIs(t, svc.SetRole(context.Background(), "ghost", domain.RoleAdmin), domain.ErrNotFound)
	users.AssertNumberOfCalls(t, "UpdateRole", 1)
}

func TestAccountService_DeleteUser(t *testing.T) {
	users := &MockUserRepository{}
	dir := &MockDirectory{}
	svc := NewAccountService(users, dir)

	dir.On("DeleteUser", mock.Anything, "fb-1").Return(errors.New("firebase down")).Once()
	err := svc.DeleteUser(context.Background(), "fb-1")
	assert.EqualError(t, err, "firebase down")
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	dir.On("DeleteUser", mock.Anything, "fb-1").Return(nil)
	users.On("Delete", mock.Anything, "fb-1").Return(nil)
	require.NoError(t, svc.DeleteUser(context.Background(), "fb-1"))
}

func TestMergeUsers(t *testing.T) {
	signIn := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	identities := []domain.Identity{
		{UID: "a", Email: "a@auth.com", DisplayName: "Auth A", PhotoURL: "http://a.png", Role: domain.RoleUser, LastSignIn: signIn},
		{UID: "b", Email: "b@auth.com"},
	}
	profiles := []domain.User{
		{ID: "a", Name: "Profile A", Phone: "+1", Role: domain.RoleAdmin},
		{ID: "c", Name: "Only Profile", Email: "c@profile.com", Role: domain.RoleUser},
	}

	views := MergeUsers(identities, profiles)
	require.Len(t, views, 3)

	a := views[0]
	assert.Equal(t, "Profile A", a.Name)
	assert.Equal(t, "a@auth.com", a.Email)
	assert.Equal(t, "+1", a.Phone)
	assert.Equal(t, "N/A", a.Address)
	assert.Equal(t, "http://a.png", a.PhotoURL)
	assert.Equal(t, "admin", a.Role)
	assert.Equal(t, "2024-03-01T12:00:00Z", a.LastSignIn)

	b := views[1]
	assert.Equal(t, "N/A", b.Name)
	assert.Equal(t, "b@auth.com", b.Email)
	assert.Equal(t, "N/A", b.Role)
	assert.Equal(t, "N/A", b.CreatedAt)

	c := views[2]
	assert.Equal(t, "c", c.UID)
	assert.Equal(t, "Only Profile", c.Name)
	assert.Equal(t, "N/A", c.LastSignIn)
}

func TestAccountService_GetUser(t *testing.T) {
	users := &MockUserRepository{}
	dir := &MockDirectory{}
	svc := NewAccountService(users, dir)

	dir.On("ListIdentities", mock.Anything).Return([]domain.Identity{{UID: "a", Email: "a@x.com"}}, nil)
	users.On("List", mock.Anything).Return([]domain.User{}, nil)

	view, err := svc.GetUser(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", view.Email)

	_, err = svc.GetUser(context.Background(), "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package identity

import (
	"context"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "travelbooking")

	token, err := m.Issue(&domain.User{ID: "u-1", Email: "ann@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	p, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UID)
	assert.Equal(t, "ann@example.com", p.Email)
	assert.True(t, p.IsAdmin())
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "travelbooking")
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(&domain.User{ID: "u-1", Role: domain.RoleUser})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour, "").Issue(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour, "").Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestJWTManager_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour, "").Verify(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestJWTManager_UnknownRoleFallsBackToUser(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "")
	token, err := m.Issue(&domain.User{ID: "u-1", Role: "superuser"})
	require.NoError(t, err)

	p, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, p.Role)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))
}

func TestPrincipalFromToken(t *testing.T) {
	p := principalFromToken(&auth.Token{
		UID:    "fb-1",
		Claims: map[string]interface{}{"email": "ann@example.com", "role": "admin"},
	})
	assert.Equal(t, &Principal{UID: "fb-1", Email: "ann@example.com", Role: domain.RoleAdmin}, p)

	p = principalFromToken(&auth.Token{UID: "fb-2", Claims: map[string]interface{}{}})
	assert.Equal(t, domain.RoleUser, p.Role)
	assert.False(t, p.IsAdmin())
}

func TestIdentityFromRecord(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id := identityFromRecord(&auth.UserRecord{
		UserInfo: &auth.UserInfo{
			UID:         "fb-1",
			Email:       "ann@example.com",
			DisplayName: "Ann",
			PhoneNumber: "+100",
		},
		CustomClaims: map[string]interface{}{"role": "admin"},
		UserMetadata: &auth.UserMetadata{CreationTimestamp: created.UnixMilli()},
	})

	assert.Equal(t, "fb-1", id.UID)
	assert.Equal(t, "Ann", id.DisplayName)
	assert.Equal(t, "+100", id.Phone)
	assert.Equal(t, domain.RoleAdmin, id.Role)
	assert.Equal(t, created, id.CreatedAt)
	assert.True(t, id.LastSignIn.IsZero())
}

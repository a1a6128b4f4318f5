package api

import (
	"net/http"
	"testing"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter_Routes(t *testing.T) {
	logger := zerolog.Nop()
	var engine *gin.Engine
	require.NotPanics(t, func() {
		engine = NewRouter(config.HTTPConfig{RateLimit: config.RateLimitConfig{RPS: 10, Burst: 10}}, testVerifier, Services{}, &logger)
	})

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/wishlist", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/users", "user-token").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/unknown", "").Code)

	routes := map[string]bool{}
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/auth/register",
		"POST /api/transactions/stripe/webhook",
		"GET /api/reviews/package/:packageId",
		"PUT /api/notifications/read-all",
		"PUT /api/notifications/:id/read",
		"GET /api/bookings/export",
		"POST /api/careers/:id/apply",
		"GET /api/activity/analytics",
		"POST /api/uploads",
	} {
		assert.True(t, routes[want], want)
	}
}

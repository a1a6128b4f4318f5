package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObserveHTTP(t *testing.T) {
	ObserveHTTP("GET", "/api/packages", 200, 10*time.Millisecond)
	ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/packages", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestCounters(t *testing.T) {
	IncCheckout("ok")
	IncWebhook("checkout.session.completed", "processed")

	assert.Equal(t, 1.0, testutil.ToFloat64(checkoutSessions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(webhookEvents.WithLabelValues("checkout.session.completed", "processed")))
}

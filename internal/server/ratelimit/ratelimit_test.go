package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/dashboards", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		},
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/dashboards", "POST")
		assert.True(t, allowed, "request %d should be within burst", i)
	}

	allowed, info := l.Allow("1.2.3.4", "/dashboards", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsIsolated(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/dashboards", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer l.Stop()

	allowed, _ := l.Allow("1.1.1.1", "/dashboards", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.1.1.1", "/dashboards", "POST")
	assert.False(t, allowed)

	// A different client still has a full bucket.
	allowed, _ = l.Allow("2.2.2.2", "/dashboards", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/dashboards", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestMatchEndpoint_PrefixMatch(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/dashboards", Method: "POST", Limit: 30, Window: time.Hour},
		{Path: "/dashboards/", Method: "GET", Limit: 200, Window: time.Minute},
	}

	cfg := matchEndpoint("/dashboards/abc-123", "GET", configs)
	assert.NotNil(t, cfg)
	assert.Equal(t, 200, cfg.Limit)

	cfg = matchEndpoint("/dashboards", "POST", configs)
	assert.NotNil(t, cfg)
	assert.Equal(t, 30, cfg.Limit)

	assert.Nil(t, matchEndpoint("/other", "GET", configs))
}

func TestLimiter_RefillOverTime(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			// 100 tokens per second, so a drained bucket recovers quickly.
			{Path: "/dashboards", Method: "POST", Limit: 100, Window: time.Second, Burst: 1},
		},
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/dashboards", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/dashboards", "POST")
	assert.False(t, allowed)

	time.Sleep(50 * time.Millisecond)
	allowed, _ = l.Allow("1.2.3.4", "/dashboards", "POST")
	assert.True(t, allowed)
}

package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	rl := newRateLimiter(1.0, 2)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	// Each IP gets its own bucket.
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "203.0.113.7:4312",
			want:       "203.0.113.7",
		},
		{
			name:       "headers ignored without trust",
			remoteAddr: "203.0.113.7:4312",
			realIP:     "198.51.100.1",
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip trusted",
			remoteAddr: "203.0.113.7:4312",
			realIP:     "198.51.100.1",
			trustProxy: true,
			want:       "198.51.100.1",
		},
		{
			name:       "first forwarded entry trusted",
			remoteAddr: "203.0.113.7:4312",
			forwarded:  "198.51.100.2, 198.51.100.3",
			trustProxy: true,
			want:       "198.51.100.2",
		},
		{
			name:       "garbage header falls back to remote addr",
			remoteAddr: "203.0.113.7:4312",
			realIP:     "not-an-ip",
			trustProxy: true,
			want:       "203.0.113.7",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			assert.Equal(t, tc.want, clientIP(r, tc.trustProxy))
		})
	}
}

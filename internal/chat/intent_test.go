package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsProductSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{
			name:    "technical wins even without search keywords",
			message: "What's the attenuation for OM4 at 10Gbps?",
			want:    false,
		},
		{
			name:    "technical wins over product-search keywords",
			message: "Do you have the IEEE specifications for Cat6a bandwidth?",
			want:    false,
		},
		{
			name:    "stock question needs search",
			message: "Do you have Cat6 cable in stock?",
			want:    true,
		},
		{
			name:    "purchase intent needs search",
			message: "I want to buy some connectors",
			want:    true,
		},
		{
			name:    "no keywords at all",
			message: "Hello",
			want:    false,
		},
		{
			name:    "broad cable-domain fallback",
			message: "Tell me about your wire options",
			want:    true,
		},
		{
			name:    "matching is case-insensitive",
			message: "SHOW ME your CATALOG",
			want:    true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NeedsProductSearch(tc.message))
		})
	}
}

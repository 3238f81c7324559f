package guid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormat(t *testing.T) {
	g := New()
	assert.Len(t, g, Length)
	assert.True(t, Valid(g), "New() must produce a valid guid: %q", g)
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		g := New()
		assert.False(t, seen[g], "duplicate guid %q", g)
		seen[g] = true
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0123456789abcdef0123456789abcdef", true},
		{"0123456789ABCDEF0123456789ABCDEF", false}, // uppercase
		{"0123456789abcdef0123456789abcde", false},  // too short
		{"0123456789abcdef0123456789abcdefg", false},
		{"0123456789abcdef0123456789abcdeg", false}, // non-hex
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.in), "Valid(%q)", tt.in)
	}
}

package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchAny(t *testing.T) {
	cases := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{"lo0", []string{"lo*"}, true},
		{"LO", []string{"lo*"}, true},
		{"vlo1", []string{"lo*"}, false},
		{"en0", []string{"en*"}, true},
		{"utun3", []string{"en*"}, false},
		{"docker0", []string{"dock"}, true},
		{"eth0", []string{"", "  "}, false},
		{"eth0", nil, false},
		{"wlan0", []string{"en*", "wlan*"}, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MatchAny(tc.name, tc.patterns), "%s %v", tc.name, tc.patterns)
	}
}

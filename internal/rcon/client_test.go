package rcon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountPlayers(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
	}{
		{
			name:     "header only",
			response: "Online players (0):",
			want:     0,
		},
		{
			name:     "empty response",
			response: "",
			want:     0,
		},
		{
			name:     "three players",
			response: "Online players (3):\n  alice (online)\n  bob (online)\n  carol (online)",
			want:     3,
		},
		{
			name:     "blank lines between players",
			response: "Online players (2):\n  alice (online)\n\n  bob (online)\n",
			want:     2,
		},
		{
			name:     "trailing whitespace lines",
			response: "Online players (1):\n  alice (online)\n   \n",
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountPlayers(tt.response))
		})
	}
}

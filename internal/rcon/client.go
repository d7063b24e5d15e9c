// Package rcon queries the Factorio server over its remote console.
package rcon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorcon/rcon"
	"github.com/rs/zerolog"
)

const (
	playersCommand = "/players online"
	dialTimeout    = 5 * time.Second
)

// Client opens a short-lived RCON session per query. Factorio's console
// tolerates frequent reconnects better than long-lived idle sessions.
type Client struct {
	address  string
	password string
	log      zerolog.Logger
}

func NewClient(address, password string, log zerolog.Logger) *Client {
	return &Client{address: address, password: password, log: log}
}

// PlayerCount asks the server for its online players and counts them.
func (c *Client) PlayerCount(ctx context.Context) (int, error) {
	conn, err := rcon.Dial(c.address, c.password,
		rcon.SetDialTimeout(dialTimeout),
		rcon.SetDeadline(dialTimeout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RCON at %s: %w", c.address, err)
	}
	defer conn.Close()

	response, err := conn.Execute(playersCommand)
	if err != nil {
		return 0, fmt.Errorf("players command failed: %w", err)
	}

	count := CountPlayers(response)
	c.log.Debug().Int("players", count).Msg("Player count queried")
	return count, nil
}

// CountPlayers parses the response to "/players online". The first line is
// a header ("Online players (N):"); every non-empty line after it is one
// player. A response without lines after the header means nobody is online.
func CountPlayers(response string) int {
	lines := strings.Split(strings.TrimSpace(response), "\n")
	if len(lines) <= 1 {
		return 0
	}

	count := 0
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

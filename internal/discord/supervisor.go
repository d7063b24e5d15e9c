package discord

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// maxBackoffSeconds caps the reconnect delay.
const maxBackoffSeconds = 300

// Transport is the blocking connect surface the supervisor drives.
// *discordgo.Session satisfies it.
type Transport interface {
	Open() error
	Close() error
}

// Supervisor keeps the transport connected forever: every failure is
// retried after a capped exponential backoff with jitter. There is no
// terminal failure state short of context cancellation.
type Supervisor struct {
	transport    Transport
	disconnected chan struct{}
	log          zerolog.Logger

	mu       sync.Mutex
	attempts int

	// Overridable in tests.
	backoff func(attempts int) time.Duration
}

func NewSupervisor(t Transport, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		transport:    t,
		disconnected: make(chan struct{}, 1),
		log:          log,
		backoff:      Backoff,
	}
}

// OnConnect resets the failure counter. Wire it to the transport's
// connected signal.
func (s *Supervisor) OnConnect() {
	s.mu.Lock()
	s.attempts = 0
	s.mu.Unlock()
}

// OnDisconnect signals the run loop that the connection dropped.
func (s *Supervisor) OnDisconnect() {
	select {
	case s.disconnected <- struct{}{}:
	default:
	}
}

// Run opens the transport and blocks. On open failure or disconnect it
// backs off and retries, unbounded. Returns nil once ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		if err := s.transport.Open(); err != nil {
			s.log.Error().Err(err).Msg("Failed to connect to Discord")
			if !s.waitBackoff(ctx) {
				return nil
			}
			continue
		}

		select {
		case <-ctx.Done():
			if err := s.transport.Close(); err != nil {
				s.log.Error().Err(err).Msg("Error closing Discord session")
			}
			return nil
		case <-s.disconnected:
			if err := s.transport.Close(); err != nil {
				s.log.Debug().Err(err).Msg("Error closing dropped Discord session")
			}
			if !s.waitBackoff(ctx) {
				return nil
			}
		}
	}
}

func (s *Supervisor) waitBackoff(ctx context.Context) bool {
	s.mu.Lock()
	s.attempts++
	attempts := s.attempts
	s.mu.Unlock()

	delay := s.backoff(attempts)
	s.log.Info().
		Int("attempt", attempts).
		Dur("backoff", delay).
		Msg("Attempting to reconnect to Discord")

	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

// Backoff computes min(300, 2^attempts + jitter) seconds, where jitter
// is uniform in [0, 1).
func Backoff(attempts int) time.Duration {
	secs := math.Pow(2, float64(attempts)) + rand.Float64()
	if secs > maxBackoffSeconds {
		secs = maxBackoffSeconds
	}
	return time.Duration(secs * float64(time.Second))
}

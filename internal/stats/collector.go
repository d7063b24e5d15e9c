// Package stats samples container status, resource usage and player count
// into point-in-time snapshots.
package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"factbot/internal/runtime"
)

// startedAtLayout parses the runtime's start timestamp after truncation
// to microsecond resolution.
const startedAtLayout = "2006-01-02T15:04:05.000000Z"

// PlayerCounter queries the number of players currently online.
type PlayerCounter interface {
	PlayerCount(ctx context.Context) (int, error)
}

// Collector produces snapshots for a single named container.
type Collector struct {
	runtime   runtime.Runtime
	console   PlayerCounter
	container string
	log       zerolog.Logger
	now       func() time.Time
}

func NewCollector(rt runtime.Runtime, console PlayerCounter, container string, log zerolog.Logger) *Collector {
	return &Collector{
		runtime:   rt,
		console:   console,
		container: container,
		log:       log,
		now:       time.Now,
	}
}

// Collect takes one snapshot. An absent container is a recognized state
// (status "stopped", all metrics unavailable), not an error. Any other
// runtime failure is returned to the caller. Console failures degrade the
// player count to unavailable and are only logged.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	state, err := c.runtime.InspectContainer(ctx, c.container)
	if errors.Is(err, runtime.ErrNotFound) {
		c.log.Info().Str("container", c.container).Msg("Container not found, it might be stopped")
		return &Snapshot{Status: "stopped"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", c.container, err)
	}

	snap := &Snapshot{Status: state.Status}
	if !snap.Running() {
		return snap, nil
	}

	sample, err := c.runtime.ContainerStats(ctx, c.container)
	if err != nil {
		return nil, fmt.Errorf("failed to sample stats for %s: %w", c.container, err)
	}

	// Ratio of container CPU ticks to host CPU ticks, not normalized per
	// core. Callers depend on this exact semantics.
	if sample.SystemCPUUsage > 0 {
		cpu := float64(sample.CPUTotalUsage) / float64(sample.SystemCPUUsage) * 100
		snap.CPUPercent = &cpu
	}

	ramUsed := float64(sample.MemoryUsage) / (1024 * 1024)
	snap.RAMUsedMiB = &ramUsed
	ramLimit := float64(sample.MemoryLimit) / (1024 * 1024 * 1024)
	snap.RAMLimitGiB = &ramLimit

	if started, err := parseStartedAt(state.StartedAt); err != nil {
		c.log.Error().Err(err).Str("started_at", state.StartedAt).Msg("Error parsing container start time")
	} else {
		uptime := c.now().UTC().Sub(started)
		snap.Uptime = &uptime
	}

	if count, err := c.console.PlayerCount(ctx); err != nil {
		c.log.Error().Err(err).Msg("Error getting player count")
	} else {
		snap.PlayerCount = &count
	}

	return snap, nil
}

// parseStartedAt parses the runtime's start timestamp, truncating its
// nanosecond precision to microseconds first.
func parseStartedAt(value string) (time.Time, error) {
	if !strings.HasSuffix(value, "Z") || len(value) < 5 {
		return time.Time{}, fmt.Errorf("unexpected start timestamp format: %q", value)
	}

	truncated := value[:len(value)-4] + "Z"
	ts, err := time.Parse(startedAtLayout, truncated)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse start timestamp %q: %w", value, err)
	}
	return ts, nil
}

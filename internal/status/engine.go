// Package status is the lifecycle orchestration engine: it owns the
// process-wide activity label, drives container actions through a bounded
// confirmation poll, and refreshes the live status render.
package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"factbot/internal/runtime"
	"factbot/internal/stats"
)

// IdleLabel is the sentinel activity label. The periodic poller only
// refreshes the status render while the label equals it exactly.
const IdleLabel = "Idle"

// Renderer publishes a snapshot plus the current activity label to the
// live status surface.
type Renderer interface {
	Render(ctx context.Context, snap *stats.Snapshot, label string) error
}

// Presence mirrors the activity label to the outward-facing presence
// indicator.
type Presence interface {
	SetPresence(label string) error
}

// Collector produces a fresh snapshot per render.
type Collector interface {
	Collect(ctx context.Context) (*stats.Snapshot, error)
}

// Config bounds the engine's timing policies.
type Config struct {
	Container      string
	IdleTimeout    time.Duration
	UpdateInterval time.Duration

	// Confirmation poll policy; zero values take the defaults (5s, 12).
	PollInterval time.Duration
	MaxAttempts  int
}

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 12
)

// Engine is the single owner of the mutable activity state. Labels are
// advisory UI state: concurrent writers follow last-write-wins, and at
// most one idle-reset timer is pending at any time.
type Engine struct {
	mu        sync.Mutex
	label     string
	changedAt time.Time
	idleTimer *time.Timer

	cfg       Config
	collector Collector
	runtime   runtime.Runtime
	renderer  Renderer
	presence  Presence
	log       zerolog.Logger
}

func NewEngine(cfg Config, collector Collector, rt runtime.Runtime, log zerolog.Logger) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}

	return &Engine{
		label:     IdleLabel,
		changedAt: time.Now(),
		cfg:       cfg,
		collector: collector,
		runtime:   rt,
		log:       log,
	}
}

// Bind attaches the transport-side render and presence surfaces. The
// transport needs the engine for its handlers and the engine needs the
// transport to render, so wiring happens after both are constructed.
func (e *Engine) Bind(renderer Renderer, presence Presence) {
	e.renderer = renderer
	e.presence = presence
}

// Label returns the current activity label.
func (e *Engine) Label() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.label
}

// Set records a new activity label, mirrors it to the presence indicator
// and triggers a render. With autoIdle the label reverts to IdleLabel
// after the idle timeout unless something else is set first. Scheduling
// cancels any previously pending idle reset.
func (e *Engine) Set(ctx context.Context, label string, autoIdle bool) {
	e.mu.Lock()
	e.label = label
	e.changedAt = time.Now()
	if e.idleTimer != nil {
		e.idleTimer.Stop()
		e.idleTimer = nil
	}
	if autoIdle {
		e.idleTimer = time.AfterFunc(e.cfg.IdleTimeout, e.resetToIdle)
	}
	e.mu.Unlock()

	e.log.Debug().Str("label", label).Bool("auto_idle", autoIdle).Msg("Activity changed")

	if e.presence != nil {
		if err := e.presence.SetPresence(label); err != nil {
			e.log.Error().Err(err).Msg("Failed to update presence")
		}
	}

	e.Refresh(ctx)
}

func (e *Engine) resetToIdle() {
	if e.Label() == IdleLabel {
		return
	}
	e.Set(context.Background(), IdleLabel, false)
}

// Refresh collects a fresh snapshot and renders it with the current
// label. Collector failures are logged and swallowed; the previous render
// stays up.
func (e *Engine) Refresh(ctx context.Context) {
	if e.renderer == nil {
		return
	}

	snap, err := e.collector.Collect(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("Failed to get Factorio server stats")
		return
	}

	if err := e.renderer.Render(ctx, snap, e.Label()); err != nil {
		e.log.Error().Err(err).Msg("Failed to render status message")
	}
}

// TailLogs returns the trailing lines of the supervised container's log.
func (e *Engine) TailLogs(ctx context.Context, lines int) (string, error) {
	logs, err := e.runtime.ContainerLogs(ctx, e.cfg.Container, lines)
	if err != nil {
		return "", fmt.Errorf("failed to fetch logs: %w", err)
	}
	return logs, nil
}

package discord

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factbot/internal/runtime"
	"factbot/internal/stats"
	"factbot/internal/status"
)

type stubRuntime struct {
	logs    string
	logsErr error
}

func (s *stubRuntime) InspectContainer(ctx context.Context, name string) (*runtime.ContainerState, error) {
	return &runtime.ContainerState{Name: name, Status: runtime.StatusExited}, nil
}
func (s *stubRuntime) ContainerStats(ctx context.Context, name string) (*runtime.StatsSample, error) {
	return &runtime.StatsSample{}, nil
}
func (s *stubRuntime) StartContainer(ctx context.Context, name string) error   { return nil }
func (s *stubRuntime) StopContainer(ctx context.Context, name string) error    { return nil }
func (s *stubRuntime) RestartContainer(ctx context.Context, name string) error { return nil }
func (s *stubRuntime) ContainerLogs(ctx context.Context, name string, tail int) (string, error) {
	return s.logs, s.logsErr
}
func (s *stubRuntime) Ping(ctx context.Context) error { return nil }

type stubCollector struct{}

func (stubCollector) Collect(ctx context.Context) (*stats.Snapshot, error) {
	return &stats.Snapshot{Status: runtime.StatusExited}, nil
}

func newLogViewFixture(t *testing.T, rt *stubRuntime) (*Bot, *fakeAPI, *status.Engine) {
	t.Helper()

	api := &fakeAPI{}
	b := newTestBot(api)
	b.logCloseTimeout = 25 * time.Millisecond

	engine := status.NewEngine(status.Config{
		Container:      "factorio",
		IdleTimeout:    time.Hour,
		UpdateInterval: time.Hour,
	}, stubCollector{}, rt, zerolog.Nop())
	engine.Bind(b, b)
	b.engine = engine

	return b, api, engine
}

func TestShowLogs_AutoCloseAfterTimeout(t *testing.T) {
	b, api, engine := newLogViewFixture(t, &stubRuntime{logs: "line one\nline two\n"})

	b.showLogs(context.Background())
	assert.Equal(t, "Logs displayed", engine.Label())

	require.Eventually(t, func() bool {
		return len(api.deleted()) == 1
	}, time.Second, 5*time.Millisecond, "log view should auto-close")

	require.Eventually(t, func() bool {
		return engine.Label() == "Logs automatically closed after 45 seconds"
	}, time.Second, 5*time.Millisecond)
}

func TestShowLogs_ManualCloseWinsRace(t *testing.T) {
	b, api, engine := newLogViewFixture(t, &stubRuntime{logs: "line\n"})
	b.logCloseTimeout = 40 * time.Millisecond

	b.showLogs(context.Background())

	var msgID string
	api.mu.Lock()
	for _, m := range api.messages {
		if len(m.Embeds) > 0 && m.Embeds[0].Title == "Factorio Server Logs" {
			msgID = m.ID
		}
	}
	api.mu.Unlock()
	require.NotEmpty(t, msgID)

	b.closeLogView(msgID, true)
	assert.Equal(t, "Logs manually closed", engine.Label())

	// The superseded timer must not delete (or report) a second time.
	time.Sleep(80 * time.Millisecond)
	assert.Len(t, api.deleted(), 1)
	assert.Equal(t, "Logs manually closed", engine.Label())
}

func TestShowLogs_ContainerNotFound(t *testing.T) {
	b, _, engine := newLogViewFixture(t, &stubRuntime{logsErr: runtime.ErrNotFound})

	b.showLogs(context.Background())

	assert.Equal(t, "Error: Factorio container not found", engine.Label())
}

func TestShowLogs_FetchError(t *testing.T) {
	b, _, engine := newLogViewFixture(t, &stubRuntime{logsErr: assert.AnError})

	b.showLogs(context.Background())

	assert.Equal(t, "Error: Failed to fetch logs", engine.Label())
}

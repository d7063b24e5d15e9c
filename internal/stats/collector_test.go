package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factbot/internal/runtime"
)

type fakeRuntime struct {
	state      *runtime.ContainerState
	inspectErr error

	sample     *runtime.StatsSample
	statsErr   error
	statsCalls int
}

func (f *fakeRuntime) InspectContainer(ctx context.Context, name string) (*runtime.ContainerState, error) {
	if f.inspectErr != nil {
		return nil, f.inspectErr
	}
	return f.state, nil
}

func (f *fakeRuntime) ContainerStats(ctx context.Context, name string) (*runtime.StatsSample, error) {
	f.statsCalls++
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.sample, nil
}

func (f *fakeRuntime) StartContainer(ctx context.Context, name string) error   { return nil }
func (f *fakeRuntime) StopContainer(ctx context.Context, name string) error    { return nil }
func (f *fakeRuntime) RestartContainer(ctx context.Context, name string) error { return nil }
func (f *fakeRuntime) ContainerLogs(ctx context.Context, name string, tail int) (string, error) {
	return "", nil
}
func (f *fakeRuntime) Ping(ctx context.Context) error { return nil }

type fakeConsole struct {
	count int
	err   error
	calls int
}

func (f *fakeConsole) PlayerCount(ctx context.Context) (int, error) {
	f.calls++
	return f.count, f.err
}

func newTestCollector(rt *fakeRuntime, console *fakeConsole) *Collector {
	return NewCollector(rt, console, "factorio", zerolog.Nop())
}

func TestCollect_NotFoundIsAState(t *testing.T) {
	rt := &fakeRuntime{inspectErr: runtime.ErrNotFound}
	console := &fakeConsole{}

	snap, err := newTestCollector(rt, console).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "stopped", snap.Status)
	assert.Nil(t, snap.CPUPercent)
	assert.Nil(t, snap.RAMUsedMiB)
	assert.Nil(t, snap.RAMLimitGiB)
	assert.Nil(t, snap.Uptime)
	assert.Nil(t, snap.PlayerCount)
	assert.Zero(t, console.calls)
}

func TestCollect_InspectErrorPropagates(t *testing.T) {
	rt := &fakeRuntime{inspectErr: errors.New("daemon unreachable")}

	snap, err := newTestCollector(rt, &fakeConsole{}).Collect(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestCollect_NotRunningSkipsMetrics(t *testing.T) {
	rt := &fakeRuntime{state: &runtime.ContainerState{Status: runtime.StatusExited}}
	console := &fakeConsole{count: 5}

	snap, err := newTestCollector(rt, console).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, runtime.StatusExited, snap.Status)
	assert.False(t, snap.Running())
	assert.Nil(t, snap.CPUPercent)
	assert.Nil(t, snap.RAMUsedMiB)
	assert.Nil(t, snap.RAMLimitGiB)
	assert.Nil(t, snap.Uptime)
	assert.Nil(t, snap.PlayerCount)
	assert.Zero(t, rt.statsCalls, "stats must not be sampled when not running")
	assert.Zero(t, console.calls, "console must not be queried when not running")
}

func TestCollect_Running(t *testing.T) {
	rt := &fakeRuntime{
		state: &runtime.ContainerState{
			Status:    runtime.StatusRunning,
			StartedAt: "2024-07-19T12:00:00.123456789Z",
		},
		sample: &runtime.StatsSample{
			CPUTotalUsage:  200_000,
			SystemCPUUsage: 1_000_000,
			MemoryUsage:    512 * 1024 * 1024,
			MemoryLimit:    4 * 1024 * 1024 * 1024,
		},
	}
	console := &fakeConsole{count: 3}

	c := newTestCollector(rt, console)
	c.now = func() time.Time {
		return time.Date(2024, 7, 19, 13, 30, 0, 123456000, time.UTC)
	}

	snap, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.True(t, snap.Running())
	require.NotNil(t, snap.CPUPercent)
	assert.InDelta(t, 20.0, *snap.CPUPercent, 0.001)
	require.NotNil(t, snap.RAMUsedMiB)
	assert.InDelta(t, 512.0, *snap.RAMUsedMiB, 0.001)
	require.NotNil(t, snap.RAMLimitGiB)
	assert.InDelta(t, 4.0, *snap.RAMLimitGiB, 0.001)
	require.NotNil(t, snap.Uptime)
	assert.Equal(t, 90*time.Minute, *snap.Uptime)
	require.NotNil(t, snap.PlayerCount)
	assert.Equal(t, 3, *snap.PlayerCount)
}

func TestCollect_StatsErrorPropagates(t *testing.T) {
	rt := &fakeRuntime{
		state:    &runtime.ContainerState{Status: runtime.StatusRunning},
		statsErr: errors.New("stats endpoint broken"),
	}

	snap, err := newTestCollector(rt, &fakeConsole{}).Collect(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestCollect_ConsoleErrorDegradesPlayerCount(t *testing.T) {
	rt := &fakeRuntime{
		state: &runtime.ContainerState{
			Status:    runtime.StatusRunning,
			StartedAt: "2024-07-19T12:00:00.123456789Z",
		},
		sample: &runtime.StatsSample{CPUTotalUsage: 1, SystemCPUUsage: 2, MemoryUsage: 1, MemoryLimit: 1},
	}
	console := &fakeConsole{err: errors.New("connection refused")}

	snap, err := newTestCollector(rt, console).Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.PlayerCount)
	assert.NotNil(t, snap.CPUPercent)
}

func TestCollect_BadStartTimestampDegradesUptime(t *testing.T) {
	rt := &fakeRuntime{
		state: &runtime.ContainerState{
			Status:    runtime.StatusRunning,
			StartedAt: "garbage",
		},
		sample: &runtime.StatsSample{CPUTotalUsage: 1, SystemCPUUsage: 2, MemoryUsage: 1, MemoryLimit: 1},
	}

	snap, err := newTestCollector(rt, &fakeConsole{}).Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Uptime)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{61 * time.Second, "1m 1s"},
		{2 * time.Hour, "2h"},
		{24*time.Hour + 5*time.Minute, "1d 5m"},
		{49*time.Hour + 30*time.Minute + 10*time.Second, "2d 1h 30m 10s"},
		{-5 * time.Second, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUptime(tt.d))
		})
	}
}

func TestSnapshotStrings(t *testing.T) {
	empty := &Snapshot{Status: runtime.StatusExited}
	assert.Equal(t, "N/A", empty.CPUString())
	assert.Equal(t, "N/A / N/A", empty.RAMString())
	assert.Equal(t, "N/A", empty.UptimeString())
	assert.Equal(t, "N/A", empty.PlayersString())

	cpu := 12.3456
	used := 512.4
	limit := 4.0
	uptime := 90 * time.Second
	players := 2
	full := &Snapshot{
		Status:      runtime.StatusRunning,
		CPUPercent:  &cpu,
		RAMUsedMiB:  &used,
		RAMLimitGiB: &limit,
		Uptime:      &uptime,
		PlayerCount: &players,
	}
	assert.Equal(t, "12.35%", full.CPUString())
	assert.Equal(t, "512MiB / 4.00GiB", full.RAMString())
	assert.Equal(t, "1m 30s", full.UptimeString())
	assert.Equal(t, "2", full.PlayersString())
}

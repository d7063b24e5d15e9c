package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/rs/zerolog"
)

// DockerRuntime implements the Runtime interface using the Docker API.
type DockerRuntime struct {
	client *client.Client
	log    zerolog.Logger
}

// NewDockerRuntime creates a Docker runtime from the environment
// (DOCKER_HOST et al.), with API version negotiation.
func NewDockerRuntime(log zerolog.Logger) (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &DockerRuntime{client: cli, log: log}, nil
}

func (d *DockerRuntime) InspectContainer(ctx context.Context, name string) (*ContainerState, error) {
	resp, err := d.client.ContainerInspect(ctx, name)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to inspect container %s: %w", name, err)
	}

	state := &ContainerState{
		ID:   resp.ID,
		Name: strings.TrimPrefix(resp.Name, "/"),
	}
	if resp.State != nil {
		state.Status = resp.State.Status
		state.StartedAt = resp.State.StartedAt
	}
	return state, nil
}

func (d *DockerRuntime) ContainerStats(ctx context.Context, name string) (*StatsSample, error) {
	resp, err := d.client.ContainerStats(ctx, name, false)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read stats for container %s: %w", name, err)
	}
	defer resp.Body.Close()

	var stats container.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats for container %s: %w", name, err)
	}

	return &StatsSample{
		CPUTotalUsage:  stats.CPUStats.CPUUsage.TotalUsage,
		SystemCPUUsage: stats.CPUStats.SystemUsage,
		MemoryUsage:    stats.MemoryStats.Usage,
		MemoryLimit:    stats.MemoryStats.Limit,
	}, nil
}

func (d *DockerRuntime) StartContainer(ctx context.Context, name string) error {
	if err := d.client.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		if cerrdefs.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to start container %s: %w", name, err)
	}

	d.log.Info().Str("container", name).Msg("Container start issued")
	return nil
}

func (d *DockerRuntime) StopContainer(ctx context.Context, name string) error {
	if err := d.client.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		if cerrdefs.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to stop container %s: %w", name, err)
	}

	d.log.Info().Str("container", name).Msg("Container stop issued")
	return nil
}

func (d *DockerRuntime) RestartContainer(ctx context.Context, name string) error {
	if err := d.client.ContainerRestart(ctx, name, container.StopOptions{}); err != nil {
		if cerrdefs.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to restart container %s: %w", name, err)
	}

	d.log.Info().Str("container", name).Msg("Container restart issued")
	return nil
}

func (d *DockerRuntime) ContainerLogs(ctx context.Context, name string, tail int) (string, error) {
	reader, err := d.client.ContainerLogs(ctx, name, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get logs for container %s: %w", name, err)
	}
	defer reader.Close()

	// The log stream is multiplexed unless the container runs with a TTY.
	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, reader); err != nil {
		return "", fmt.Errorf("failed to read logs for container %s: %w", name, err)
	}

	return buf.String(), nil
}

func (d *DockerRuntime) Ping(ctx context.Context) error {
	if _, err := d.client.Ping(ctx); err != nil {
		return fmt.Errorf("cannot connect to Docker daemon: %w", err)
	}
	return nil
}

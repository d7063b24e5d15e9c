// Package runtime defines the container runtime boundary consumed by the
// supervisor. The Docker adapter in this package is the only implementation;
// tests substitute fakes.
package runtime

import (
	"context"
	"errors"
)

// ErrNotFound reports that the supervised container does not exist. This is
// a recognized state for the caller, not an exceptional failure.
var ErrNotFound = errors.New("container not found")

// Container status values as reported by the runtime.
const (
	StatusRunning = "running"
	StatusExited  = "exited"
)

// ContainerState is a point-in-time view of a container's lifecycle state.
type ContainerState struct {
	ID        string
	Name      string
	Status    string
	StartedAt string // raw runtime timestamp, nanosecond precision
}

// StatsSample is one non-streaming resource usage sample.
type StatsSample struct {
	CPUTotalUsage  uint64
	SystemCPUUsage uint64
	MemoryUsage    uint64
	MemoryLimit    uint64
}

// Runtime is the contract for container runtime implementations.
type Runtime interface {
	// InspectContainer fetches fresh state for the named container.
	// Returns ErrNotFound when the container does not exist.
	InspectContainer(ctx context.Context, name string) (*ContainerState, error)

	// ContainerStats takes a single non-streaming resource usage sample.
	ContainerStats(ctx context.Context, name string) (*StatsSample, error)

	// Lifecycle operations. Best-effort: completion is confirmed by the
	// caller polling InspectContainer, not by these calls returning.
	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error
	RestartContainer(ctx context.Context, name string) error

	// ContainerLogs returns the trailing lines of the container log.
	ContainerLogs(ctx context.Context, name string, tail int) (string, error)

	// Ping checks that the runtime daemon is reachable.
	Ping(ctx context.Context) error
}

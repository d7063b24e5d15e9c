package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"factbot/internal/runtime"
)

// Action is a container lifecycle command issued by an operator.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
)

func (a Action) issuingLabel() string {
	switch a {
	case ActionStop:
		return "Factorio server stopping..."
	case ActionRestart:
		return "Factorio server restarting..."
	default:
		return "Factorio server starting..."
	}
}

func (a Action) confirmedLabel() string {
	switch a {
	case ActionStop:
		return "Factorio server stopped"
	case ActionRestart:
		return "Factorio server restarted"
	default:
		return "Factorio server started"
	}
}

// satisfied reports whether the observed container status confirms the
// action: stop wants exited, start and restart want running.
func (a Action) satisfied(status string) bool {
	if a == ActionStop {
		return status == runtime.StatusExited
	}
	return status == runtime.StatusRunning
}

// PerformAction issues a lifecycle command and polls for confirmation.
// The issue step runs exactly once; only the confirmation poll repeats,
// at most MaxAttempts times. Three outcomes: confirmed, timed-out-pending
// (informational, the runtime may still finish later) and error. Every
// outcome is reported through the activity label.
func (e *Engine) PerformAction(ctx context.Context, action Action) error {
	e.Set(ctx, action.issuingLabel(), false)
	e.log.Info().Str("action", string(action)).Str("container", e.cfg.Container).Msg("Managing Factorio container")

	if err := e.issue(ctx, action); err != nil {
		e.failAction(ctx, action, err)
		return err
	}

	lastStatus := ""
	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.cfg.PollInterval):
		}

		state, err := e.runtime.InspectContainer(ctx, e.cfg.Container)
		if err != nil {
			e.failAction(ctx, action, err)
			return err
		}

		lastStatus = state.Status
		if action.satisfied(state.Status) {
			e.Set(ctx, action.confirmedLabel(), true)
			return nil
		}
	}

	// Not a failure: the command was issued and may still complete.
	e.Set(ctx, fmt.Sprintf("Factorio server %s command issued, but status is %s", action, lastStatus), true)
	return nil
}

func (e *Engine) issue(ctx context.Context, action Action) error {
	switch action {
	case ActionStart:
		return e.runtime.StartContainer(ctx, e.cfg.Container)
	case ActionStop:
		return e.runtime.StopContainer(ctx, e.cfg.Container)
	case ActionRestart:
		return e.runtime.RestartContainer(ctx, e.cfg.Container)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (e *Engine) failAction(ctx context.Context, action Action, err error) {
	if errors.Is(err, runtime.ErrNotFound) {
		e.Set(ctx, "Error: Factorio container not found", true)
		return
	}
	e.log.Error().Err(err).Str("action", string(action)).Msg("Error managing Factorio container")
	e.Set(ctx, fmt.Sprintf("Error: %s failed", action), true)
}

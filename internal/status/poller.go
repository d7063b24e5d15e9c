package status

import (
	"context"
	"time"
)

// RunPoller refreshes the status render every UpdateInterval, but only
// while the activity label is the idle sentinel. Transient labels set by
// in-flight actions are never overwritten by the background refresh.
func (e *Engine) RunPoller(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.Label() == IdleLabel {
				e.Refresh(ctx)
			}
		}
	}
}

package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"factbot/internal/runtime"
)

// unavailable is rendered for every metric that could not be sampled.
const unavailable = "N/A"

// Snapshot is one point-in-time read of container status and metrics.
// Nil metric fields mean "unavailable"; they are always nil when the
// container is not running.
type Snapshot struct {
	Status      string
	CPUPercent  *float64
	RAMUsedMiB  *float64
	RAMLimitGiB *float64
	Uptime      *time.Duration
	PlayerCount *int
}

func (s *Snapshot) Running() bool {
	return s.Status == runtime.StatusRunning
}

// CPUString formats the CPU sample, e.g. "12.34%".
func (s *Snapshot) CPUString() string {
	if s.CPUPercent == nil {
		return unavailable
	}
	return fmt.Sprintf("%.2f%%", *s.CPUPercent)
}

// RAMString formats usage against the limit, e.g. "512MiB / 4.00GiB".
func (s *Snapshot) RAMString() string {
	used, limit := unavailable, unavailable
	if s.RAMUsedMiB != nil {
		used = fmt.Sprintf("%.0fMiB", *s.RAMUsedMiB)
	}
	if s.RAMLimitGiB != nil {
		limit = fmt.Sprintf("%.2fGiB", *s.RAMLimitGiB)
	}
	return used + " / " + limit
}

func (s *Snapshot) UptimeString() string {
	if s.Uptime == nil {
		return unavailable
	}
	return FormatUptime(*s.Uptime)
}

func (s *Snapshot) PlayersString() string {
	if s.PlayerCount == nil {
		return unavailable
	}
	return strconv.Itoa(*s.PlayerCount)
}

// FormatUptime renders a duration as "1d 2h 3m 4s", omitting zero-valued
// units. A zero duration renders as "0s".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d.Seconds())
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}

	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

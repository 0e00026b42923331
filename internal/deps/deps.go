package deps

import (
	"github.com/ld100/peacedoon/internal/config"
)

// Status reports the availability of a dependency. Command carries the
// resolved absolute path when the tool was found.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Check evaluates every external tool a build run needs, resolved from
// config.
func Check(cfg *config.Config) []Status {
	return []Status{
		CheckFFmpeg(cfg.FFmpegBinary()),
	}
}

// MissingRequired returns the names of unavailable required dependencies.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}

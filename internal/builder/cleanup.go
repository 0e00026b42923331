package builder

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ld100/peacedoon/internal/logging"
)

// CleanResult contains the outcome of a scratch cleanup pass.
type CleanResult struct {
	Removed []string
	Errors  []CleanError
}

// CleanError pairs a directory path with its cleanup error.
type CleanError struct {
	Path  string
	Error error
}

// CleanScratch removes per-run scratch directories older than maxAge.
// Runs that crashed before their own cleanup leave directories behind;
// this pass reclaims them without touching anything recent enough to
// belong to a live run.
func CleanScratch(scratchDir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	result := CleanResult{}

	scratchDir = strings.TrimSpace(scratchDir)
	if scratchDir == "" {
		return result
	}

	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanError{Path: scratchDir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirPath := filepath.Join(scratchDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanError{Path: dirPath, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, CleanError{Path: dirPath, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale scratch directory",
					logging.String("path", dirPath),
					logging.Error(err),
					logging.String(logging.FieldEventType, "scratch_cleanup_failed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		if logger != nil {
			logger.Info("removed stale scratch directory",
				logging.String("path", dirPath),
				logging.Duration("age", time.Since(info.ModTime())),
				logging.String(logging.FieldEventType, "scratch_cleanup"),
			)
		}
	}
	return result
}

package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/elaraway/tradeflow/internal/common"
)

// Suffixes the browser uses for transfers still in flight. Files carrying
// them never qualify as download candidates.
var partialSuffixes = []string{".crdownload", ".tmp", ".part"}

// Reconciler watches the staging directory and relocates each finished
// download into its canonical artifact slot. It owns the staging directory
// for the duration of one task; the serialized driver guarantees at most
// one download is in flight at a time.
type Reconciler struct {
	dir          string
	pollInterval time.Duration
	settleDelay  time.Duration
}

// NewReconciler creates a reconciler over the given staging directory.
func NewReconciler(dir string, pollInterval, settleDelay time.Duration) *Reconciler {
	return &Reconciler{
		dir:          dir,
		pollInterval: pollInterval,
		settleDelay:  settleDelay,
	}
}

// Collect waits for the download issued at requestedAt to land in staging,
// then moves it to targetPath. A candidate must not carry a partial-transfer
// suffix and must have been modified strictly after requestedAt; the newest
// such file wins. Returns common.ErrDownloadTimeout if nothing qualifies
// within timeout.
func (r *Reconciler) Collect(ctx context.Context, requestedAt time.Time, targetPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		candidate, err := r.newestCandidate(requestedAt)
		if err != nil {
			return err
		}
		if candidate != "" {
			// Give the browser a moment to release the file handle before
			// moving it out from under it.
			if r.settleDelay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(r.settleDelay):
				}
			}
			if err := moveFile(candidate, targetPath); err != nil {
				return fmt.Errorf("failed to relocate download: %w", err)
			}
			slog.Debug("Download reconciled",
				"staged", filepath.Base(candidate),
				"target", targetPath)
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %s", common.ErrDownloadTimeout, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.pollInterval):
		}
	}
}

// newestCandidate returns the qualifying staged file with the latest
// modification time, or "" when none qualifies yet.
func (r *Reconciler) newestCandidate(requestedAt time.Time) (string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return "", fmt.Errorf("failed to read staging directory: %w", err)
	}

	var (
		newest      string
		newestMtime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || isPartial(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mtime := info.ModTime()
		if !mtime.After(requestedAt) {
			continue
		}
		if newest == "" || mtime.After(newestMtime) {
			newest = filepath.Join(r.dir, entry.Name())
			newestMtime = mtime
		}
	}
	return newest, nil
}

// Cleanup removes the staging directory if it is empty. Stray files from
// failed periods are left for the operator; their presence is non-fatal.
func (r *Reconciler) Cleanup() {
	if err := os.Remove(r.dir); err != nil && !os.IsNotExist(err) {
		slog.Debug("Staging directory not removed", "dir", r.dir, "error", err)
	}
}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// moveFile renames src to dst, falling back to copy-and-remove when staging
// and the artifact tree live on different filesystems. The file must end up
// moved, not copied: a leftover in staging would be misattributed to the
// next task's polling window.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

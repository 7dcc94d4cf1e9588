package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaraway/tradeflow/internal/common"
)

func stageFile(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestCollectMovesNewestQualifyingFile(t *testing.T) {
	staging := t.TempDir()
	target := filepath.Join(t.TempDir(), "09041110", "April_2021.xlsx")
	requestedAt := time.Now().Add(-time.Minute)

	stageFile(t, staging, "stale.xlsx", requestedAt.Add(-time.Hour))
	stageFile(t, staging, "older.xlsx", requestedAt.Add(10*time.Second))
	stageFile(t, staging, "newest.xlsx", requestedAt.Add(20*time.Second))

	r := NewReconciler(staging, 10*time.Millisecond, 0)
	require.NoError(t, r.Collect(context.Background(), requestedAt, target, time.Second))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	// The newest candidate moved; the stale and older files stay behind.
	assert.NoFileExists(t, filepath.Join(staging, "newest.xlsx"))
	assert.FileExists(t, filepath.Join(staging, "stale.xlsx"))
	assert.FileExists(t, filepath.Join(staging, "older.xlsx"))
}

func TestCollectIgnoresPartialDownloads(t *testing.T) {
	staging := t.TempDir()
	target := filepath.Join(t.TempDir(), "out.xlsx")
	requestedAt := time.Now().Add(-time.Minute)

	stageFile(t, staging, "report.xlsx.crdownload", time.Now())
	stageFile(t, staging, "report.tmp", time.Now())

	r := NewReconciler(staging, 10*time.Millisecond, 0)
	err := r.Collect(context.Background(), requestedAt, target, 100*time.Millisecond)

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDownloadTimeout))
	assert.NoFileExists(t, target)
}

func TestCollectTimesOutOnEmptyStaging(t *testing.T) {
	r := NewReconciler(t.TempDir(), 10*time.Millisecond, 0)
	err := r.Collect(context.Background(), time.Now(), filepath.Join(t.TempDir(), "out.xlsx"), 50*time.Millisecond)

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDownloadTimeout))
}

func TestCollectPicksUpLateArrival(t *testing.T) {
	staging := t.TempDir()
	target := filepath.Join(t.TempDir(), "out.xlsx")
	requestedAt := time.Now()

	go func() {
		time.Sleep(50 * time.Millisecond)
		path := filepath.Join(staging, "late.xlsx")
		_ = os.WriteFile(path, []byte("late"), 0o600)
		mtime := requestedAt.Add(time.Second)
		_ = os.Chtimes(path, mtime, mtime)
	}()

	r := NewReconciler(staging, 10*time.Millisecond, 0)
	require.NoError(t, r.Collect(context.Background(), requestedAt, target, 2*time.Second))
	assert.FileExists(t, target)
}

func TestCollectHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReconciler(t.TempDir(), 10*time.Millisecond, 0)
	err := r.Collect(ctx, time.Now(), filepath.Join(t.TempDir(), "out.xlsx"), time.Minute)

	require.ErrorIs(t, err, context.Canceled)
}

func TestCleanupRemovesEmptyStaging(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "temp_downloads")
	require.NoError(t, os.MkdirAll(staging, 0o750))

	NewReconciler(staging, time.Second, 0).Cleanup()
	assert.NoDirExists(t, staging)
}

func TestCleanupLeavesStrayFiles(t *testing.T) {
	staging := t.TempDir()
	stageFile(t, staging, "stray.xlsx", time.Now())

	NewReconciler(staging, time.Second, 0).Cleanup()
	assert.FileExists(t, filepath.Join(staging, "stray.xlsx"))
}

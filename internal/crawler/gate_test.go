package crawler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaraway/tradeflow/internal/model"
)

func touchArtifact(t *testing.T, root, code string, p model.Period) {
	t.Helper()
	path := ArtifactPath(root, code, p)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("xlsx"), 0o600))
}

func TestArtifactPath(t *testing.T) {
	got := ArtifactPath("/data/import", "09041110", model.Period{Year: 2021, Month: time.April})
	assert.Equal(t, filepath.Join("/data/import", "09041110", "April_2021.xlsx"), got)
}

func TestFileSinkExists(t *testing.T) {
	root := t.TempDir()
	sink := NewFileSink(root)
	p := model.Period{Year: 2021, Month: time.April}

	assert.False(t, sink.Exists("09041110", p))
	touchArtifact(t, root, "09041110", p)
	assert.True(t, sink.Exists("09041110", p))
}

func TestFileSinkComplete(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("missing code directory is incomplete", func(t *testing.T) {
		sink := NewFileSink(t.TempDir())
		assert.False(t, sink.Complete("09041110", 2024, 2025, now))
	})

	t.Run("all non-future artifacts present is complete", func(t *testing.T) {
		root := t.TempDir()
		for _, p := range model.PeriodsThrough(2024, now) {
			touchArtifact(t, root, "09041110", p)
		}
		assert.True(t, NewFileSink(root).Complete("09041110", 2024, 2025, now))
	})

	t.Run("one missing month is incomplete", func(t *testing.T) {
		root := t.TempDir()
		for _, p := range model.PeriodsThrough(2024, now) {
			if p.Year == 2024 && p.Month == time.July {
				continue
			}
			touchArtifact(t, root, "09041110", p)
		}
		assert.False(t, NewFileSink(root).Complete("09041110", 2024, 2025, now))
	})

	t.Run("future months are not required", func(t *testing.T) {
		root := t.TempDir()
		// Only January through March of the current year exist.
		for _, p := range model.PeriodsThrough(2025, now) {
			touchArtifact(t, root, "09041110", p)
		}
		assert.True(t, NewFileSink(root).Complete("09041110", 2025, 2025, now))
	})
}

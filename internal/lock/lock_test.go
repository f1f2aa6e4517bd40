package lock

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire(t *testing.T) {
	t.Run("creates_lock_file", func(t *testing.T) {
		dir := t.TempDir()

		l, err := Acquire(context.Background(), dir)
		require.NoError(t, err)
		defer l.Release()

		assert.Equal(t, filepath.Join(dir, FileName), l.Path())
		data, err := os.ReadFile(l.Path())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "pid="))
	})

	t.Run("second_acquire_fails", func(t *testing.T) {
		dir := t.TempDir()

		l, err := Acquire(context.Background(), dir)
		require.NoError(t, err)
		defer l.Release()

		_, err = Acquire(context.Background(), dir)
		assert.ErrorIs(t, err, ErrLocked)
	})

	t.Run("reacquire_after_release", func(t *testing.T) {
		dir := t.TempDir()

		l, err := Acquire(context.Background(), dir)
		require.NoError(t, err)
		require.NoError(t, l.Release())
		require.NoError(t, l.Release())

		l2, err := Acquire(context.Background(), dir)
		require.NoError(t, err)
		assert.NoError(t, l2.Release())
	})

	t.Run("stale_lock_replaced", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		require.NoError(t, os.WriteFile(path, []byte("pid=1\n"), 0o600))
		old := time.Now().Add(-2 * StaleThreshold)
		require.NoError(t, os.Chtimes(path, old, old))

		l, err := Acquire(context.Background(), dir)
		require.NoError(t, err)
		assert.NoError(t, l.Release())
	})

	t.Run("cancelled_context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Acquire(ctx, t.TempDir())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing_directory", func(t *testing.T) {
		_, err := Acquire(context.Background(), filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

package database

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupSnapshot(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("sqlite-bytes"), 0o644))

	logger := zerolog.New(io.Discard)
	storage := filepath.Join(dir, "backups")
	svc := NewBackupService(dbPath, BackupConfig{Enabled: true, StoragePath: storage}, &logger)

	require.NoError(t, svc.Snapshot())

	entries, err := os.ReadDir(storage)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(storage, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "sqlite-bytes", string(data))
}

func TestBackupSnapshot_MissingDatabase(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(io.Discard)
	svc := NewBackupService(filepath.Join(dir, "missing.db"), BackupConfig{
		Enabled:     true,
		StoragePath: filepath.Join(dir, "backups"),
	}, &logger)

	assert.Error(t, svc.Snapshot())
}

func TestBackupPruneOldSnapshots(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0o644))

	storage := filepath.Join(dir, "backups")
	require.NoError(t, os.MkdirAll(storage, 0o755))

	stale := filepath.Join(storage, "backup_old.db")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	old := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(storage, "backup_fresh.db")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	logger := zerolog.New(io.Discard)
	svc := NewBackupService(dbPath, BackupConfig{
		Enabled:       true,
		StoragePath:   storage,
		RetentionDays: 7,
	}, &logger)
	svc.pruneOldSnapshots()

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

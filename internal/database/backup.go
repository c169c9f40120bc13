package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupConfig controls periodic snapshots of the SQLite file.
type BackupConfig struct {
	Enabled       bool
	StoragePath   string
	Interval      time.Duration
	RetentionDays int
}

// BackupService copies the database file into a timestamped snapshot on a
// fixed interval and prunes snapshots older than the retention window.
type BackupService struct {
	dbPath string
	cfg    BackupConfig
	logger zerolog.Logger
}

func NewBackupService(dbPath string, cfg BackupConfig, logger *zerolog.Logger) *BackupService {
	if cfg.StoragePath == "" {
		cfg.StoragePath = "data/backups"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &BackupService{
		dbPath: dbPath,
		cfg:    cfg,
		logger: logger.With().Str("component", "backup").Logger(),
	}
}

// Start runs snapshots until ctx is cancelled. The first snapshot is taken
// immediately.
func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("backups disabled")
		return
	}

	s.logger.Info().
		Dur("interval", s.cfg.Interval).
		Str("path", s.cfg.StoragePath).
		Msg("backup service started")

	if err := s.Snapshot(); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Snapshot(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.pruneOldSnapshots()
		}
	}
}

// Snapshot copies the database file to <storage>/backup_<timestamp>.db.
func (s *BackupService) Snapshot() error {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(s.cfg.StoragePath, name)

	source, err := os.Open(s.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer destination.Close()

	if _, err = io.Copy(destination, source); err != nil {
		return fmt.Errorf("copy snapshot: %w", err)
	}

	s.logger.Info().Str("path", dst).Msg("backup completed")
	return nil
}

func (s *BackupService) pruneOldSnapshots() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("read backup directory")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("deleting old backup")
			_ = os.Remove(filepath.Join(s.cfg.StoragePath, file.Name()))
		}
	}
}

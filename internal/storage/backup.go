package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const backupTimeLayout = "20060102_150405.000"

// Backup snapshots the database next to the live file unless nothing was
// written since the previous backup, in which case it returns an empty path.
func (s *Storage) Backup(ctx context.Context) (string, error) {
	s.backupMu.Lock()
	defer s.backupMu.Unlock()

	writes := s.writes.Load()
	if writes == s.lastBackup {
		return "", nil
	}
	path, err := s.backupLocked(ctx)
	if err != nil {
		return "", err
	}
	s.lastBackup = writes
	return path, nil
}

// BackupNow snapshots the database regardless of pending changes.
func (s *Storage) BackupNow(ctx context.Context) (string, error) {
	s.backupMu.Lock()
	defer s.backupMu.Unlock()

	writes := s.writes.Load()
	path, err := s.backupLocked(ctx)
	if err != nil {
		return "", err
	}
	s.lastBackup = writes
	return path, nil
}

func (s *Storage) backupLocked(ctx context.Context) (string, error) {
	target := fmt.Sprintf("%s.backup.%s", s.path, time.Now().Format(backupTimeLayout))

	// VACUUM INTO refuses to overwrite.
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove stale backup: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, target); err != nil {
		return "", fmt.Errorf("write backup %s: %w", target, err)
	}

	s.cleanupOldBackups()
	return target, nil
}

// Backups lists existing backup files, oldest first.
func (s *Storage) Backups() ([]string, error) {
	matches, err := filepath.Glob(s.path + ".backup.*")
	if err != nil {
		return nil, err
	}
	// Timestamps sort lexically.
	sort.Strings(matches)
	return matches, nil
}

func (s *Storage) cleanupOldBackups() {
	if s.backupCount <= 0 {
		return
	}
	matches, err := s.Backups()
	if err != nil || len(matches) <= s.backupCount {
		return
	}
	for _, old := range matches[:len(matches)-s.backupCount] {
		os.Remove(old)
	}
}

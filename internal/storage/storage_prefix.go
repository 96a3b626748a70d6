package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const MaxPrefixLength = 32

var ErrInvalidPrefix = errors.New("invalid prefix")

// ValidatePrefix trims p and checks it against the prefix policy: one line,
// at most MaxPrefixLength characters, no pings and no code formatting.
func ValidatePrefix(p string) (string, error) {
	p = strings.TrimSpace(p)
	switch {
	case p == "":
		return "", fmt.Errorf("%w: prefix is empty", ErrInvalidPrefix)
	case utf8.RuneCountInString(p) > MaxPrefixLength:
		return "", fmt.Errorf("%w: prefix is longer than %d characters", ErrInvalidPrefix, MaxPrefixLength)
	case strings.ContainsAny(p, "\r\n"):
		return "", fmt.Errorf("%w: prefix must be a single line", ErrInvalidPrefix)
	case strings.Contains(p, "`"):
		return "", fmt.Errorf("%w: prefix must not contain backticks", ErrInvalidPrefix)
	}

	lower := strings.ToLower(p)
	if strings.Contains(lower, "@everyone") || strings.Contains(lower, "@here") || strings.Contains(p, "<@") {
		return "", fmt.Errorf("%w: prefix must not mention anyone", ErrInvalidPrefix)
	}
	return p, nil
}

// GetPrefix returns the stored prefix for userID; ok is false when none is set.
func (s *Storage) GetPrefix(ctx context.Context, userID string) (string, bool, error) {
	var prefix string
	err := s.db.QueryRowContext(ctx,
		`SELECT prefix FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load prefix for %s: %w", userID, err)
	}
	return prefix, true, nil
}

// SetPrefix validates and stores prefix for userID. Policy violations return
// an error wrapping ErrInvalidPrefix and leave the stored value untouched.
func (s *Storage) SetPrefix(ctx context.Context, userID, prefix string) error {
	clean, err := ValidatePrefix(prefix)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, prefix, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET prefix = excluded.prefix, updated_at = excluded.updated_at`,
		userID, clean,
	)
	if err != nil {
		return fmt.Errorf("save prefix for %s: %w", userID, err)
	}
	s.markWritten()
	return nil
}

// ClearPrefix removes the prefix for userID. It reports whether one existed.
func (s *Storage) ClearPrefix(ctx context.Context, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("clear prefix for %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.markWritten()
	}
	return n > 0, nil
}

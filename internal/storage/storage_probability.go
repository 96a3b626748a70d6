package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrProbabilityOutOfRange = errors.New("probability must be between 0 and 1")

type ProbabilityKind string

const (
	ReplyProbability    ProbabilityKind = "reply"
	ReactionProbability ProbabilityKind = "reaction"
)

// ParseProbabilityKind accepts "reply" or "reaction" in any case.
func ParseProbabilityKind(s string) (ProbabilityKind, error) {
	switch ProbabilityKind(strings.ToLower(strings.TrimSpace(s))) {
	case ReplyProbability:
		return ReplyProbability, nil
	case ReactionProbability:
		return ReactionProbability, nil
	}
	return "", fmt.Errorf("unknown probability kind %q (want reply or reaction)", s)
}

type Probabilities struct {
	Reply    float64 `json:"reply_probability"`
	Reaction float64 `json:"reaction_probability"`
}

func (p Probabilities) Validate() error {
	if err := ValidateProbability(p.Reply); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	if err := ValidateProbability(p.Reaction); err != nil {
		return fmt.Errorf("reaction: %w", err)
	}
	return nil
}

func ValidateProbability(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: got %v", ErrProbabilityOutOfRange, v)
	}
	return nil
}

// Defaults returns the probabilities used for channels without a record.
func (s *Storage) Defaults() Probabilities {
	return s.defaults
}

// GetProbabilities returns the configured probabilities for a channel, or the
// defaults when none were ever set.
func (s *Storage) GetProbabilities(ctx context.Context, guildID, channelID string) (Probabilities, error) {
	var p Probabilities
	err := s.db.QueryRowContext(ctx, `
		SELECT reply_probability, reaction_probability
		FROM channel_probabilities
		WHERE guild_id = ? AND channel_id = ?`,
		guildID, channelID,
	).Scan(&p.Reply, &p.Reaction)
	if errors.Is(err, sql.ErrNoRows) {
		return s.defaults, nil
	}
	if err != nil {
		return Probabilities{}, fmt.Errorf("load probabilities for %s/%s: %w", guildID, channelID, err)
	}
	return p, nil
}

// SetProbability stores one of the channel's probabilities. Values outside
// [0,1] are rejected with ErrProbabilityOutOfRange and nothing is written.
// The other probability keeps its current (or default) value.
func (s *Storage) SetProbability(ctx context.Context, guildID, channelID string, kind ProbabilityKind, value float64) error {
	if err := ValidateProbability(value); err != nil {
		return err
	}

	var column string
	switch kind {
	case ReplyProbability:
		column = "reply_probability"
	case ReactionProbability:
		column = "reaction_probability"
	default:
		return fmt.Errorf("unknown probability kind %q", kind)
	}

	current := s.defaults
	switch kind {
	case ReplyProbability:
		current.Reply = value
	case ReactionProbability:
		current.Reaction = value
	}

	query := fmt.Sprintf(`
		INSERT INTO channel_probabilities (guild_id, channel_id, reply_probability, reaction_probability, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(guild_id, channel_id) DO UPDATE SET %[1]s = excluded.%[1]s, updated_at = excluded.updated_at`,
		column,
	)
	if _, err := s.db.ExecContext(ctx, query, guildID, channelID, current.Reply, current.Reaction); err != nil {
		return fmt.Errorf("save %s probability for %s/%s: %w", kind, guildID, channelID, err)
	}
	s.markWritten()
	return nil
}

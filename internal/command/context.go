package command

import (
	"context"
	"errors"

	"sydneybot/internal/storage"
)

// ErrUsage marks invocations with missing or malformed arguments.
var ErrUsage = errors.New("usage")

// ErrForbidden is returned when the caller lacks the required permission.
var ErrForbidden = errors.New("forbidden")

// Store is the persisted state commands may change.
type Store interface {
	GetProbabilities(ctx context.Context, guildID, channelID string) (storage.Probabilities, error)
	SetProbability(ctx context.Context, guildID, channelID string, kind storage.ProbabilityKind, value float64) error
	GetPrefix(ctx context.Context, userID string) (string, bool, error)
	ClearPrefix(ctx context.Context, userID string) (bool, error)
}

// MessageContext is what a text command receives in Invocation.Data.
type MessageContext struct {
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	Author    string

	// CanManageChannel is true for members with Manage Channels or
	// Administrator in this channel.
	CanManageChannel bool

	Store  Store
	Prefix string

	// Reply answers the command message.
	Reply func(ctx context.Context, content string) error
}

func (m *MessageContext) DirectMessage() bool {
	return m.GuildID == ""
}

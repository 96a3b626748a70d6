package ai

import (
	"context"
	"errors"
)

// ErrCompletion wraps every failure to obtain a usable completion.
var ErrCompletion = errors.New("completion failed")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Tier string

const (
	TierDefault   Tier = "default"
	TierExpensive Tier = "expensive"
)

type Interaction string

const (
	InteractionReply    Interaction = "reply"
	InteractionReaction Interaction = "reaction"
)

// Metadata travels with a request so calls can be traced on the remote side.
type Metadata struct {
	RequestID   string      `json:"request_id"`
	UserID      string      `json:"user_id"`
	ChannelID   string      `json:"channel_id"`
	GuildID     string      `json:"guild_id"`
	Interaction Interaction `json:"interaction"`
}

type Request struct {
	Messages    []Message
	Temperature float64
	Tier        Tier
	Metadata    Metadata
}

// Completer turns a conversation into the next assistant message.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

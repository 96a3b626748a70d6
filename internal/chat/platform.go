// /internal/chat/platform.go
package chat

import (
	"context"
	"time"

	"sydneybot/internal/storage"
)

// Platform is the chat service the bot speaks through.
type Platform interface {
	// Reply answers messageID without pinging its author.
	Reply(ctx context.Context, channelID, messageID, content string) error
	React(ctx context.Context, channelID, messageID, emoji string) error
	SetNickname(ctx context.Context, guildID, nickname string) error
	Typing(ctx context.Context, channelID string) error
}

// Store is the persisted state chat needs.
type Store interface {
	GetPrefix(ctx context.Context, userID string) (string, bool, error)
	SetPrefix(ctx context.Context, userID, prefix string) error
	GetProbabilities(ctx context.Context, guildID, channelID string) (storage.Probabilities, error)
	Backup(ctx context.Context) (string, error)
}

// Recorder receives activity counts. A nil Recorder is allowed.
type Recorder interface {
	MessageSeen()
	ReplySent()
	ReactionAdded()
	CompletionFailed()
}

type Member struct {
	ID          string
	Username    string
	DisplayName string
}

// Message is one inbound chat message with the context needed to answer it.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	At        time.Time

	ChannelName string
	ServerName  string

	AuthorID      string
	AuthorName    string
	AuthorDisplay string
	AuthorIsBot   bool

	Content   string
	Mentioned bool
	FromSelf  bool

	// Members are the guild members whose names may be turned into mentions.
	Members []Member
}

func (m Message) DirectMessage() bool {
	return m.GuildID == ""
}

// Speaker is the name used for the author in history and prompts.
func (m Message) Speaker() string {
	if m.AuthorDisplay != "" {
		return m.AuthorDisplay
	}
	return m.AuthorName
}

type nopRecorder struct{}

func (nopRecorder) MessageSeen()      {}
func (nopRecorder) ReplySent()        {}
func (nopRecorder) ReactionAdded()    {}
func (nopRecorder) CompletionFailed() {}

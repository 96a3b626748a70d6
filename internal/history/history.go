// /internal/history/history.go
package history

import (
	"sync"
	"time"
)

// MaxTurns bounds each channel's history.
const MaxTurns = 50

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// DirectMessages is the scope used in place of a guild ID for DM channels.
const DirectMessages = "dm"

// Key identifies one conversation. GuildID is DirectMessages for DMs.
type Key struct {
	GuildID   string
	ChannelID string
}

func KeyFor(guildID, channelID string) Key {
	if guildID == "" {
		guildID = DirectMessages
	}
	return Key{GuildID: guildID, ChannelID: channelID}
}

// channelLog is one conversation's bounded buffer, oldest first.
type channelLog struct {
	mu    sync.RWMutex
	turns []Turn
}

// Store holds in-memory conversation history per channel. History is not
// persisted and starts empty on every run.
type Store struct {
	mu       sync.RWMutex
	channels map[Key]*channelLog
	max      int
}

func New() *Store {
	return NewWithLimit(MaxTurns)
}

func NewWithLimit(max int) *Store {
	if max <= 0 {
		max = MaxTurns
	}
	return &Store{
		channels: make(map[Key]*channelLog),
		max:      max,
	}
}

func (s *Store) channel(key Key) *channelLog {
	s.mu.RLock()
	c := s.channels[key]
	s.mu.RUnlock()
	if c != nil {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c = s.channels[key]; c != nil {
		return c
	}
	c = &channelLog{}
	s.channels[key] = c
	return c
}

// Append adds a turn and drops the oldest ones beyond the limit.
func (s *Store) Append(key Key, t Turn) {
	if t.At.IsZero() {
		t.At = time.Now()
	}
	c := s.channel(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, t)
	if len(c.turns) > s.max {
		trimmed := make([]Turn, s.max)
		copy(trimmed, c.turns[len(c.turns)-s.max:])
		c.turns = trimmed
	}
}

func (s *Store) AppendUser(key Key, content string) {
	s.Append(key, Turn{Role: RoleUser, Content: content})
}

func (s *Store) AppendAssistant(key Key, content string) {
	s.Append(key, Turn{Role: RoleAssistant, Content: content})
}

// Snapshot returns a copy of the channel's turns, oldest first.
func (s *Store) Snapshot(key Key) []Turn {
	s.mu.RLock()
	c := s.channels[key]
	s.mu.RUnlock()
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (s *Store) Len(key Key) int {
	s.mu.RLock()
	c := s.channels[key]
	s.mu.RUnlock()
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Reset forgets a channel's history.
func (s *Store) Reset(key Key) {
	s.mu.Lock()
	delete(s.channels, key)
	s.mu.Unlock()
}

// Channels reports how many conversations are tracked.
func (s *Store) Channels() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

package history

import (
	"sync"
	"time"
)

// AuthorWindowDuration is how long a message counts as recent for bot-loop
// suppression.
const AuthorWindowDuration = 5 * time.Second

type authorEntry struct {
	authorID string
	isBot    bool
	at       time.Time
}

// AuthorWindow remembers who wrote in each channel during the last few
// seconds so the bot can stay quiet while another bot is talking.
type AuthorWindow struct {
	mu       sync.Mutex
	window   time.Duration
	channels map[string][]authorEntry
	now      func() time.Time
}

func NewAuthorWindow() *AuthorWindow {
	return NewAuthorWindowWithDuration(AuthorWindowDuration)
}

func NewAuthorWindowWithDuration(d time.Duration) *AuthorWindow {
	return &AuthorWindow{
		window:   d,
		channels: make(map[string][]authorEntry),
		now:      time.Now,
	}
}

// Record notes a message in channelID and prunes expired entries.
func (w *AuthorWindow) Record(channelID, authorID string, isBot bool, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if at.IsZero() {
		at = w.now()
	}
	entries := w.prune(channelID, w.now())
	w.channels[channelID] = append(entries, authorEntry{authorID: authorID, isBot: isBot, at: at})
}

// OtherBotRecently reports whether a bot other than exclude (typically the
// current author and the bot itself) wrote in channelID inside the window.
func (w *AuthorWindow) OtherBotRecently(channelID string, exclude ...string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := w.prune(channelID, w.now())
	for _, e := range entries {
		if !e.isBot || contains(exclude, e.authorID) {
			continue
		}
		return true
	}
	return false
}

// prune drops entries older than the window. Caller holds mu.
func (w *AuthorWindow) prune(channelID string, now time.Time) []authorEntry {
	entries := w.channels[channelID]
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(entries) && entries[i].at.Before(cutoff) {
		i++
	}
	if i == len(entries) {
		delete(w.channels, channelID)
		return nil
	}
	if i > 0 {
		entries = append([]authorEntry(nil), entries[i:]...)
		w.channels[channelID] = entries
	}
	return entries
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// /internal/status/counters.go
package status

import (
	"sync/atomic"
	"time"
)

// Counters tracks bot activity for the presence text and the status page.
type Counters struct {
	startTime time.Time

	guilds            atomic.Int64
	messagesSeen      atomic.Uint64
	repliesSent       atomic.Uint64
	reactionsAdded    atomic.Uint64
	completionsFailed atomic.Uint64
}

func NewCounters() *Counters {
	return &Counters{startTime: time.Now()}
}

func (c *Counters) MessageSeen()      { c.messagesSeen.Add(1) }
func (c *Counters) ReplySent()        { c.repliesSent.Add(1) }
func (c *Counters) ReactionAdded()    { c.reactionsAdded.Add(1) }
func (c *Counters) CompletionFailed() { c.completionsFailed.Add(1) }

func (c *Counters) SetGuilds(n int) { c.guilds.Store(int64(n)) }

type Snapshot struct {
	Uptime            time.Duration `json:"-"`
	UptimeSeconds     int64         `json:"uptime_seconds"`
	Guilds            int64         `json:"guilds"`
	MessagesSeen      uint64        `json:"messages_seen"`
	RepliesSent       uint64        `json:"replies_sent"`
	ReactionsAdded    uint64        `json:"reactions_added"`
	CompletionsFailed uint64        `json:"completions_failed"`
}

func (c *Counters) Snapshot() Snapshot {
	up := time.Since(c.startTime)
	return Snapshot{
		Uptime:            up,
		UptimeSeconds:     int64(up.Seconds()),
		Guilds:            c.guilds.Load(),
		MessagesSeen:      c.messagesSeen.Load(),
		RepliesSent:       c.repliesSent.Load(),
		ReactionsAdded:    c.reactionsAdded.Load(),
		CompletionsFailed: c.completionsFailed.Load(),
	}
}

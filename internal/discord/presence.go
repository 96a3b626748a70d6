package discord

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"

	"sydneybot/internal/status"
)

// PresenceSetter changes the bot's visible activity.
type PresenceSetter interface {
	SetPresence(text string) error
}

// Presence rotates the bot's activity text on a cron schedule.
type Presence struct {
	setter   PresenceSetter
	counters *status.Counters

	mu   sync.Mutex
	next int
	cron *cron.Cron
}

func NewPresence(setter PresenceSetter, counters *status.Counters) *Presence {
	return &Presence{setter: setter, counters: counters}
}

// Texts returns the activity lines the presence cycles through.
func (p *Presence) Texts() []string {
	snap := p.counters.Snapshot()
	started := time.Now().Add(-snap.Uptime)
	return []string{
		fmt.Sprintf("chatting in %s servers", humanize.Comma(snap.Guilds)),
		fmt.Sprintf("%s messages read", humanize.Comma(int64(snap.MessagesSeen))),
		fmt.Sprintf("%s replies sent", humanize.Comma(int64(snap.RepliesSent))),
		fmt.Sprintf("awake since %s", humanize.RelTime(started, time.Now(), "ago", "from now")),
	}
}

// Update sets the next activity text in the rotation.
func (p *Presence) Update() {
	texts := p.Texts()

	p.mu.Lock()
	text := texts[p.next%len(texts)]
	p.next++
	p.mu.Unlock()

	if err := p.setter.SetPresence(text); err != nil {
		log.Printf("[WARN] Failed to update presence: %v", err)
		return
	}
	log.Printf("[DEBUG] Presence set to %q", text)
}

// Start schedules Update on a cron schedule such as "@every 5m".
func (p *Presence) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, p.Update); err != nil {
		return fmt.Errorf("invalid presence schedule %q: %w", schedule, err)
	}
	c.Start()

	p.mu.Lock()
	p.cron = c
	p.mu.Unlock()
	return nil
}

// Stop halts the schedule and waits for a running update to finish.
func (p *Presence) Stop() {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

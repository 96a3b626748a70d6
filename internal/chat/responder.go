package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sydneybot/internal/ai"
	"sydneybot/internal/history"
	"sydneybot/internal/persona"
	"sydneybot/internal/trigger"
)

// Apology is sent when no reply could be generated.
const Apology = "Sorry, I couldn't come up with a reply right now. Please try again in a moment."

const directMessageServer = "Direct Message"

type ResponderOptions struct {
	Completer   ai.Completer
	History     *history.Store
	Personas    *persona.Registry
	Store       Store
	Platform    Platform
	Recorder    Recorder
	Temperature float64
}

// Responder generates and delivers persona replies.
type Responder struct {
	ai          ai.Completer
	history     *history.Store
	personas    *persona.Registry
	store       Store
	platform    Platform
	rec         Recorder
	temperature float64
	now         func() time.Time

	mu        sync.Mutex
	nicknames map[string]string
}

func NewResponder(opts ResponderOptions) *Responder {
	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Responder{
		ai:          opts.Completer,
		history:     opts.History,
		personas:    opts.Personas,
		store:       opts.Store,
		platform:    opts.Platform,
		rec:         rec,
		temperature: opts.Temperature,
		now:         time.Now,
		nicknames:   make(map[string]string),
	}
}

// Respond answers msg as decided. A failed completion is answered with one
// apology and leaves the channel history as it was.
func (r *Responder) Respond(ctx context.Context, msg Message, d trigger.Decision) error {
	done := make(chan struct{})
	go keepTyping(ctx, r.platform, msg.ChannelID, done)
	defer close(done)

	key := history.KeyFor(msg.GuildID, msg.ChannelID)
	req := ai.Request{
		Messages:    r.buildMessages(msg, d, r.history.Snapshot(key)),
		Temperature: r.temperature,
		Tier:        ai.TierDefault,
		Metadata: ai.Metadata{
			RequestID:   uuid.NewString(),
			UserID:      msg.AuthorID,
			ChannelID:   msg.ChannelID,
			GuildID:     msg.GuildID,
			Interaction: ai.InteractionReply,
		},
	}
	if d.UseExpensiveModel {
		req.Tier = ai.TierExpensive
	}

	reply, err := r.ai.Complete(ctx, req)
	if err != nil {
		r.rec.CompletionFailed()
		log.Printf("[ERR] Reply to %s in %s failed: %v", msg.AuthorID, msg.ChannelID, err)
		if sendErr := r.platform.Reply(ctx, msg.ChannelID, msg.ID, Apology); sendErr != nil {
			log.Printf("[WARN] Failed to send apology in %s: %v", msg.ChannelID, sendErr)
		}
		return err
	}

	name, content := SplitSpeaker(reply)
	if name != "" && !msg.DirectMessage() {
		r.updateNickname(ctx, msg.GuildID, name)
	}

	out := content
	prefix, ok, err := r.store.GetPrefix(ctx, msg.AuthorID)
	if err != nil {
		log.Printf("[WARN] Failed to load prefix for %s: %v", msg.AuthorID, err)
	} else if ok {
		out = applyPrefix(prefix, out)
	}

	if !msg.DirectMessage() {
		author := Member{ID: msg.AuthorID, Username: msg.AuthorName, DisplayName: msg.AuthorDisplay}
		out = ResolveMentions(out, author, msg.Members)
	}
	out = Truncate(out)

	if err := r.platform.Reply(ctx, msg.ChannelID, msg.ID, out); err != nil {
		log.Printf("[WARN] Failed to send reply in %s: %v", msg.ChannelID, err)
		return fmt.Errorf("send reply: %w", err)
	}
	r.rec.ReplySent()

	log.Printf("[CHAT] %s -> %s @ %s: %s", personaLabel(d), msg.Speaker(), msg.ChannelID, truncateLog(out, 120))

	r.history.AppendAssistant(key, content)

	if path, err := r.store.Backup(ctx); err != nil {
		log.Printf("[WARN] Backup failed: %v", err)
	} else if path != "" {
		log.Printf("[DEBUG] Backup written to %s", path)
	}
	return nil
}

func (r *Responder) buildMessages(msg Message, d trigger.Decision, turns []history.Turn) []ai.Message {
	vars := persona.PromptVars{
		UserName:    msg.Speaker(),
		ServerName:  msg.ServerName,
		ChannelName: msg.ChannelName,
		Now:         r.now(),
	}
	if msg.DirectMessage() || vars.ServerName == "" {
		vars.ServerName = directMessageServer
	}
	if vars.ChannelName == "" {
		vars.ChannelName = msg.ChannelID
	}

	var system string
	if d.Anonymous || d.Persona.ID == "" {
		system = r.personas.Generic(vars)
	} else {
		system = d.Persona.Render(vars)
	}

	messages := make([]ai.Message, 0, len(turns)+1)
	messages = append(messages, ai.Message{Role: "system", Content: system})
	for _, t := range turns {
		messages = append(messages, ai.Message{Role: string(t.Role), Content: t.Content})
	}
	return messages
}

// updateNickname changes the bot's guild nickname when the speaker name
// differs from the last one set there.
func (r *Responder) updateNickname(ctx context.Context, guildID, name string) {
	r.mu.Lock()
	if r.nicknames[guildID] == name {
		r.mu.Unlock()
		return
	}
	r.nicknames[guildID] = name
	r.mu.Unlock()

	if err := r.platform.SetNickname(ctx, guildID, name); err != nil {
		log.Printf("[WARN] Failed to set nickname %q in %s: %v", name, guildID, err)
	}
}

func personaLabel(d trigger.Decision) string {
	if d.Anonymous || d.Persona.ID == "" {
		return "anonymous"
	}
	return string(d.Persona.ID)
}

func keepTyping(ctx context.Context, p Platform, channelID string, done <-chan struct{}) {
	_ = p.Typing(ctx, channelID)
	ticker := time.NewTicker(8 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Typing(ctx, channelID)
		}
	}
}

func truncateLog(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

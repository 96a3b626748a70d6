package chat

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"sydneybot/internal/ai"
	"sydneybot/internal/persona"
)

var customEmoji = regexp.MustCompile(`^<a?:(\w+):(\d+)>$`)

type Reactor struct {
	ai          ai.Completer
	personas    *persona.Registry
	platform    Platform
	rec         Recorder
	temperature float64
}

func NewReactor(completer ai.Completer, personas *persona.Registry, platform Platform, rec Recorder, temperature float64) *Reactor {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Reactor{
		ai:          completer,
		personas:    personas,
		platform:    platform,
		rec:         rec,
		temperature: temperature,
	}
}

// React asks for one emoji fitting msg and adds it. Failures are logged and
// otherwise ignored.
func (r *Reactor) React(ctx context.Context, msg Message) {
	req := ai.Request{
		Messages: []ai.Message{
			{Role: "system", Content: r.personas.ReactionPrompt()},
			{Role: "user", Content: msg.Speaker() + ": " + msg.Content},
		},
		Temperature: r.temperature,
		Tier:        ai.TierDefault,
		Metadata: ai.Metadata{
			RequestID:   uuid.NewString(),
			UserID:      msg.AuthorID,
			ChannelID:   msg.ChannelID,
			GuildID:     msg.GuildID,
			Interaction: ai.InteractionReaction,
		},
	}

	answer, err := r.ai.Complete(ctx, req)
	if err != nil {
		log.Printf("[WARN] Reaction request for %s failed: %v", msg.ID, err)
		return
	}

	emoji, ok := ParseEmoji(answer)
	if !ok {
		log.Printf("[DEBUG] No usable emoji in reaction answer %q", truncateLog(answer, 40))
		return
	}
	if err := r.platform.React(ctx, msg.ChannelID, msg.ID, emoji); err != nil {
		log.Printf("[WARN] Failed to add reaction %q to %s: %v", emoji, msg.ID, err)
		return
	}
	r.rec.ReactionAdded()
}

// ParseEmoji takes the first token of answer. Custom emoji in <:name:id>
// form are converted to the name:id form reactions expect.
func ParseEmoji(answer string) (string, bool) {
	fields := strings.Fields(answer)
	if len(fields) == 0 {
		return "", false
	}
	tok := fields[0]
	if m := customEmoji.FindStringSubmatch(tok); m != nil {
		return m[1] + ":" + m[2], true
	}
	return tok, true
}

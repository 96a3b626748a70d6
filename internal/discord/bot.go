package discord

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/bwmarrin/discordgo"

	"sydneybot/internal/chat"
	"sydneybot/internal/command"
	"sydneybot/internal/status"
)

// NewSession creates a gateway session with the intents the bot needs.
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	dg.State.TrackMembers = true
	return dg, nil
}

type Options struct {
	Router    *command.Router
	Chat      *chat.Handler
	Store     command.Store
	Counters  *status.Counters
	Presence  *Presence
	Blacklist []string
}

// Bot routes gateway events into commands and the chat pipeline.
type Bot struct {
	dg        *discordgo.Session
	router    *command.Router
	chat      *chat.Handler
	store     command.Store
	counters  *status.Counters
	presence  *Presence
	blacklist []string

	ctx context.Context
}

func NewBot(dg *discordgo.Session, opts Options) *Bot {
	return &Bot{
		dg:        dg,
		router:    opts.Router,
		chat:      opts.Chat,
		store:     opts.Store,
		counters:  opts.Counters,
		presence:  opts.Presence,
		blacklist: opts.Blacklist,
		ctx:       context.Background(),
	}
}

// Run connects to the gateway and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onGuildDelete)
	b.dg.AddHandler(b.onMessageCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Closing gateway connection...")
	if err := b.dg.Close(); err != nil {
		log.Printf("[WARN] Failed to close Discord session: %v", err)
	}

	// Replies still running need the store, which main closes after Run.
	log.Println("[INFO] Waiting for replies and reactions in progress...")
	b.chat.Wait()
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.chat.SetSelfID(r.User.ID)

	for _, g := range r.Guilds {
		if b.isGuildBlacklisted(g.ID) {
			log.Printf("[INFO] Leaving blacklisted guild: %s", g.ID)
			if err := s.GuildLeave(g.ID); err != nil {
				log.Printf("[ERR] Failed to leave guild %s: %v", g.ID, err)
			}
		}
	}
	b.refreshGuildCount(s)

	if b.presence != nil {
		b.presence.Update()
	}
	log.Printf("[INFO] Discord bot %s is running.", r.User.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.isGuildBlacklisted(g.ID) {
		log.Printf("[INFO] Leaving blacklisted guild: %s (%s)", g.ID, g.Name)
		if err := s.GuildLeave(g.ID); err != nil {
			log.Printf("[ERR] Failed to leave guild %s: %v", g.ID, err)
		}
		return
	}
	log.Printf("[INFO] Available in guild: %s (%s)", g.ID, g.Name)
	b.refreshGuildCount(s)
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	log.Printf("[INFO] Removed from guild: %s", g.ID)
	b.refreshGuildCount(s)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	ctx := b.ctx
	selfID := selfUserID(s)
	self := selfID != "" && m.Author.ID == selfID

	if !self && !m.Author.Bot {
		if b.router.Dispatch(ctx, m.Content, b.commandContext(s, m)) {
			return
		}
	}
	b.chat.Handle(ctx, toChatMessage(s, m))
}

func (b *Bot) commandContext(s *discordgo.Session, m *discordgo.MessageCreate) *command.MessageContext {
	p := NewPlatform(s)
	return &command.MessageContext{
		GuildID:          m.GuildID,
		ChannelID:        m.ChannelID,
		MessageID:        m.ID,
		AuthorID:         m.Author.ID,
		Author:           m.Author.Username,
		CanManageChannel: m.GuildID != "" && canManageChannel(s, m.Author.ID, m.ChannelID),
		Store:            b.store,
		Reply: func(ctx context.Context, content string) error {
			return p.Reply(ctx, m.ChannelID, m.ID, content)
		},
	}
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.blacklist, guildID)
}

func (b *Bot) refreshGuildCount(s *discordgo.Session) {
	if b.counters == nil {
		return
	}
	s.State.RLock()
	n := len(s.State.Guilds)
	s.State.RUnlock()
	b.counters.SetGuilds(n)
}

package chat

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"sydneybot/internal/history"
	"sydneybot/internal/storage"
	"sydneybot/internal/trigger"
)

// Handler runs the chat pipeline for every message that is not a command.
type Handler struct {
	store     Store
	history   *history.Store
	window    *history.AuthorWindow
	matcher   *trigger.Matcher
	responder *Responder
	reactor   *Reactor
	platform  Platform
	rec       Recorder
	selfID    atomic.Value

	// pending counts messages being handled and reactions that run
	// detached from them. Once closed, new messages are dropped.
	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
	bg      context.Context
}

type HandlerOptions struct {
	Store     Store
	History   *history.Store
	Window    *history.AuthorWindow
	Matcher   *trigger.Matcher
	Responder *Responder
	Reactor   *Reactor
	Platform  Platform
	Recorder  Recorder
	// Background bounds reaction goroutines; defaults to context.Background.
	Background context.Context
}

func NewHandler(opts HandlerOptions) *Handler {
	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	bg := opts.Background
	if bg == nil {
		bg = context.Background()
	}
	return &Handler{
		store:     opts.Store,
		history:   opts.History,
		window:    opts.Window,
		matcher:   opts.Matcher,
		responder: opts.Responder,
		reactor:   opts.Reactor,
		platform:  opts.Platform,
		rec:       rec,
		bg:        bg,
	}
}

// SetSelfID tells the handler which author is the bot itself.
func (h *Handler) SetSelfID(id string) {
	h.selfID.Store(id)
}

func (h *Handler) self() string {
	id, _ := h.selfID.Load().(string)
	return id
}

// Handle records msg and answers or reacts to it as the trigger rules decide.
func (h *Handler) Handle(ctx context.Context, msg Message) {
	if !h.begin() {
		return
	}
	defer h.pending.Done()

	self := h.self()
	if self != "" && msg.AuthorID == self {
		msg.FromSelf = true
	}
	h.window.Record(msg.ChannelID, msg.AuthorID, msg.AuthorIsBot || msg.FromSelf, msg.At)
	if msg.FromSelf {
		return
	}
	h.rec.MessageSeen()

	key := history.KeyFor(msg.GuildID, msg.ChannelID)
	h.history.AppendUser(key, msg.Speaker()+": "+msg.Content)

	if !h.handlePrefixInstruction(ctx, msg) {
		return
	}

	probs, err := h.store.GetProbabilities(ctx, msg.GuildID, msg.ChannelID)
	if err != nil {
		log.Printf("[WARN] Failed to load probabilities for %s: %v", msg.ChannelID, err)
		probs = storage.DefaultOptions().Defaults
	}

	d := h.matcher.Decide(trigger.Input{
		AuthorID:         msg.AuthorID,
		Content:          msg.Content,
		Mentioned:        msg.Mentioned,
		DirectMessage:    msg.DirectMessage(),
		FromSelf:         msg.FromSelf,
		OtherBotRecently: h.window.OtherBotRecently(msg.ChannelID, msg.AuthorID, self),
	}, probs)

	if d.Suppressed {
		log.Printf("[DEBUG] Staying quiet in %s, another bot spoke recently", msg.ChannelID)
	}

	if d.React {
		h.pending.Add(1)
		go func() {
			defer h.pending.Done()
			h.reactor.React(h.bg, msg)
		}()
	}

	if d.Respond {
		_ = h.responder.Respond(ctx, msg, d)
	}
}

// handlePrefixInstruction stores a prefix the user asked for. It returns
// false when the message was answered with a rejection and needs nothing
// more.
func (h *Handler) handlePrefixInstruction(ctx context.Context, msg Message) bool {
	prefix, ok := ParsePrefixInstruction(msg.Content)
	if !ok {
		return true
	}

	err := h.store.SetPrefix(ctx, msg.AuthorID, prefix)
	switch {
	case err == nil:
		log.Printf("[INFO] Prefix for %s set to %q", msg.AuthorID, prefix)
		return true
	case errors.Is(err, storage.ErrInvalidPrefix):
		if sendErr := h.platform.Reply(ctx, msg.ChannelID, msg.ID, "I can't use that prefix: "+reason(err)); sendErr != nil {
			log.Printf("[WARN] Failed to send prefix rejection: %v", sendErr)
		}
		return false
	default:
		log.Printf("[ERR] Failed to save prefix for %s: %v", msg.AuthorID, err)
		return true
	}
}

func (h *Handler) begin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.pending.Add(1)
	return true
}

// Wait stops accepting messages and blocks until replies and reactions
// already in progress finish.
func (h *Handler) Wait() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.pending.Wait()
}

// reason drops the sentinel text from a wrapped validation error.
func reason(err error) string {
	s := err.Error()
	prefix := storage.ErrInvalidPrefix.Error() + ": "
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}

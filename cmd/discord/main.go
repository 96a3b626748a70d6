// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"sydneybot/internal/ai"
	"sydneybot/internal/chat"
	"sydneybot/internal/command"
	"sydneybot/internal/command/core"
	"sydneybot/internal/command/settings"
	"sydneybot/internal/config"
	"sydneybot/internal/discord"
	"sydneybot/internal/history"
	"sydneybot/internal/logging"
	"sydneybot/internal/persona"
	"sydneybot/internal/status"
	"sydneybot/internal/storage"
	"sydneybot/internal/trigger"
	"sydneybot/pkg/cmd"
)

func main() {
	cfg := config.New()

	logs := logging.Setup(logging.Options{Path: cfg.LogPath, Debug: cfg.LogDebug})
	defer logs.Close()

	log.Println("[INFO] Starting sydneybot...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewWithOptions(cfg.StoragePath, storage.Options{
		Defaults: storage.Probabilities{
			Reply:    cfg.DefaultReplyProbability,
			Reaction: cfg.DefaultReactionProbability,
		},
		BackupCount: cfg.BackupCount,
	})
	if err != nil {
		log.Fatalf("[ERR] Failed to open storage: %v", err)
	}
	defer store.Close()

	personas := persona.MustLoad()
	if cfg.PersonasPath != "" {
		fromFile, err := persona.LoadFile(cfg.PersonasPath)
		if err != nil {
			log.Fatalf("[ERR] Failed to load personas: %v", err)
		}
		personas = fromFile
	}

	completer := ai.NewOpenRouter(ai.OpenRouterOptions{
		BaseURL:       cfg.OpenRouterBaseURL,
		APIKey:        cfg.OpenRouterAPIKey,
		APIKeyExpense: cfg.OpenRouterAPIKeyExpensive,
		Model:         cfg.AIModel,
		ModelExpense:  cfg.AIModelExpensive,
		Timeout:       cfg.AITimeout,
		RateLimit:     cfg.AIRateLimit,
	})

	dg, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		log.Fatalf("[ERR] %v", err)
	}

	counters := status.NewCounters()
	platform := discord.NewPlatform(dg)
	turns := history.New()

	responder := chat.NewResponder(chat.ResponderOptions{
		Completer:   completer,
		History:     turns,
		Personas:    personas,
		Store:       store,
		Platform:    platform,
		Recorder:    counters,
		Temperature: cfg.AITemperature,
	})
	reactor := chat.NewReactor(completer, personas, platform, counters, cfg.AITemperature)

	handler := chat.NewHandler(chat.HandlerOptions{
		Store:      store,
		History:    turns,
		Window:     history.NewAuthorWindow(),
		Matcher:    trigger.New(personas, cfg.EscalationKeyword),
		Responder:  responder,
		Reactor:    reactor,
		Platform:   platform,
		Recorder:   counters,
		Background: ctx,
	})

	registry := cmd.NewRegistry()
	settings.Register(registry)
	core.Register(registry, personas)

	presence := discord.NewPresence(platform, counters)

	bot := discord.NewBot(dg, discord.Options{
		Router:    command.NewRouter(cfg.CommandPrefix, registry),
		Chat:      handler,
		Store:     store,
		Counters:  counters,
		Presence:  presence,
		Blacklist: cfg.DiscordGuildBlacklist,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(gctx)
	})
	g.Go(func() error {
		if err := presence.Start(cfg.PresenceSchedule); err != nil {
			return err
		}
		<-gctx.Done()
		presence.Stop()
		return nil
	})
	if cfg.PersonasPath != "" {
		g.Go(func() error {
			return persona.Watch(gctx, cfg.PersonasPath, personas)
		})
	}
	if cfg.StatusAddr != "" {
		g.Go(func() error {
			return status.Run(gctx, cfg.StatusAddr, counters)
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("[ERR] Bot stopped with error: %v", err)
	}
	handler.Wait()

	if path, err := store.Backup(context.Background()); err != nil {
		log.Printf("[WARN] Final backup failed: %v", err)
	} else if path != "" {
		log.Printf("[INFO] Final backup written to %s", path)
	}
	log.Println("[INFO] Discord bot exited cleanly")
}

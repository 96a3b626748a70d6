package middleware

import (
	"context"
	"log"
	"strings"
	"time"

	"sydneybot/internal/command"
	"sydneybot/pkg/cmd"
)

// WithCommandLogger logs each command run with its caller and duration.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			where, who := "?", "?"
			if mc, ok := inv.Data.(*command.MessageContext); ok {
				where = mc.ChannelID
				if mc.GuildID != "" {
					where = mc.GuildID + "/" + mc.ChannelID
				}
				who = mc.Author + " (" + mc.AuthorID + ")"
			}
			log.Printf("[INFO] Command %s [%s] by %s in %s took %s (err=%v)",
				c.Name(), strings.Join(inv.Args, " "), who, where, time.Since(start).Round(time.Millisecond), err)
			return err
		})
	}
}

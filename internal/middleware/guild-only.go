package middleware

import (
	"context"

	"sydneybot/internal/command"
	"sydneybot/pkg/cmd"
)

// WithGuildOnly refuses to run c in direct messages.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if mc, ok := inv.Data.(*command.MessageContext); ok && mc.DirectMessage() {
				return mc.Reply(ctx, "This command only works in a server channel.")
			}
			return c.Run(ctx, inv)
		})
	}
}

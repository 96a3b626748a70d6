package middleware

import (
	"context"
	"fmt"

	"sydneybot/internal/command"
	"sydneybot/pkg/cmd"
)

// WithManageChannel lets only members who can manage the channel run c.
func WithManageChannel() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			mc, ok := inv.Data.(*command.MessageContext)
			if !ok {
				return fmt.Errorf("%s: unexpected invocation data %T", c.Name(), inv.Data)
			}
			if !mc.CanManageChannel {
				return command.ErrForbidden
			}
			return c.Run(ctx, inv)
		})
	}
}

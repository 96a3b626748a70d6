package settings

import (
	"context"
	"fmt"

	"sydneybot/internal/command"
	"sydneybot/pkg/cmd"
)

type ShowPrefixCommand struct{}

func (c *ShowPrefixCommand) Name() string        { return "show_prefix" }
func (c *ShowPrefixCommand) Description() string { return "Show the prefix I put in front of my replies to you" }

func (c *ShowPrefixCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, ok := inv.Data.(*command.MessageContext)
	if !ok {
		return nil
	}
	prefix, set, err := mc.Store.GetPrefix(ctx, mc.AuthorID)
	if err != nil {
		return err
	}
	if !set {
		return mc.Reply(ctx, "You don't have a prefix set.")
	}
	return mc.Reply(ctx, fmt.Sprintf("Your prefix is `%s`.", prefix))
}

type ClearPrefixCommand struct{}

func (c *ClearPrefixCommand) Name() string        { return "clear_prefix" }
func (c *ClearPrefixCommand) Description() string { return "Stop putting a prefix in front of my replies to you" }

func (c *ClearPrefixCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, ok := inv.Data.(*command.MessageContext)
	if !ok {
		return nil
	}
	cleared, err := mc.Store.ClearPrefix(ctx, mc.AuthorID)
	if err != nil {
		return err
	}
	if !cleared {
		return mc.Reply(ctx, "You didn't have a prefix set.")
	}
	return mc.Reply(ctx, "Prefix cleared.")
}

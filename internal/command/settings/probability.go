package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"sydneybot/internal/command"
	"sydneybot/internal/storage"
	"sydneybot/pkg/cmd"
)

// SetProbabilityCommand changes one of the channel's probabilities.
type SetProbabilityCommand struct {
	Kind storage.ProbabilityKind
}

func (c *SetProbabilityCommand) Name() string {
	return "set_" + string(c.Kind) + "_probability"
}

func (c *SetProbabilityCommand) Description() string {
	if c.Kind == storage.ReplyProbability {
		return "Set how often I join in uninvited in this channel (0 to 1)"
	}
	return "Set how often I react to messages in this channel (0 to 1)"
}

func (c *SetProbabilityCommand) Usage() string {
	return c.Name() + " <0..1>"
}

func (c *SetProbabilityCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, ok := inv.Data.(*command.MessageContext)
	if !ok {
		return nil
	}
	if len(inv.Args) != 1 {
		return command.ErrUsage
	}
	value, err := strconv.ParseFloat(inv.Args[0], 64)
	if err != nil {
		return fmt.Errorf("%w: %v", command.ErrUsage, err)
	}

	err = mc.Store.SetProbability(ctx, mc.GuildID, mc.ChannelID, c.Kind, value)
	if errors.Is(err, storage.ErrProbabilityOutOfRange) {
		return mc.Reply(ctx, "Probability must be a number between 0 and 1.")
	}
	if err != nil {
		return err
	}
	return mc.Reply(ctx, fmt.Sprintf("%s probability for this channel set to %s.", capitalize(string(c.Kind)), formatProbability(value)))
}

type ShowProbabilitiesCommand struct{}

func (c *ShowProbabilitiesCommand) Name() string { return "show_probabilities" }
func (c *ShowProbabilitiesCommand) Description() string {
	return "Show this channel's reply and reaction probabilities"
}

func (c *ShowProbabilitiesCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, ok := inv.Data.(*command.MessageContext)
	if !ok {
		return nil
	}
	p, err := mc.Store.GetProbabilities(ctx, mc.GuildID, mc.ChannelID)
	if err != nil {
		return err
	}
	return mc.Reply(ctx, fmt.Sprintf("Reply probability: %s\nReaction probability: %s",
		formatProbability(p.Reply), formatProbability(p.Reaction)))
}

func formatProbability(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

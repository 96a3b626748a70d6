package core

import (
	"context"
	"fmt"
	"strings"

	"sydneybot/internal/command"
	"sydneybot/internal/middleware"
	"sydneybot/internal/persona"
	"sydneybot/pkg/cmd"
)

type HelpCommand struct {
	registry *cmd.Registry
	personas *persona.Registry
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Show what I can do" }

func (c *HelpCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, ok := inv.Data.(*command.MessageContext)
	if !ok {
		return nil
	}
	return mc.Reply(ctx, c.render(mc.Prefix))
}

func (c *HelpCommand) render(prefix string) string {
	var sb strings.Builder

	sb.WriteString("**Talking to me**\n")
	sb.WriteString("Mention me, DM me, or say one of these names:\n")
	for _, p := range c.personas.All() {
		fmt.Fprintf(&sb, "- %s: %s\n", p.Name, strings.Join(quoteAll(p.Triggers), ", "))
	}
	sb.WriteString("Say \"start your messages with <prefix> before everything\" and I'll open every reply to you with it.\n")

	sb.WriteString("\n**Commands**\n")
	for _, cm := range c.registry.All() {
		usage := cmd.UsageOf(cm)
		if usage == "" {
			usage = cm.Name()
		}
		fmt.Fprintf(&sb, "`%s%s` %s\n", prefix, usage, cm.Description())
	}
	return strings.TrimSpace(sb.String())
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = "`" + s + "`"
	}
	return out
}

// Register adds the help command to reg.
func Register(reg *cmd.Registry, personas *persona.Registry) {
	reg.MustRegister(cmd.Apply(
		&HelpCommand{registry: reg, personas: personas},
		middleware.WithRecover(),
		middleware.WithCommandLogger(),
	))
}

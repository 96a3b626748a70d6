package middleware

import (
	"context"
	"errors"
	"testing"

	"sydneybot/internal/command"
	"sydneybot/pkg/cmd"
)

type probe struct {
	ran   bool
	panic bool
}

func (p *probe) Name() string        { return "probe" }
func (p *probe) Description() string { return "test command" }
func (p *probe) Run(ctx context.Context, inv *cmd.Invocation) error {
	p.ran = true
	if p.panic {
		panic("boom")
	}
	return nil
}

func invocation(mc *command.MessageContext) *cmd.Invocation {
	return &cmd.Invocation{Name: "probe", Data: mc}
}

func TestWithGuildOnly(t *testing.T) {
	p := &probe{}
	var replied string
	mc := &command.MessageContext{ChannelID: "dm", Reply: func(_ context.Context, s string) error {
		replied = s
		return nil
	}}

	c := cmd.Apply(p, WithGuildOnly())
	if err := c.Run(context.Background(), invocation(mc)); err != nil {
		t.Fatal(err)
	}
	if p.ran || replied == "" {
		t.Fatalf("guild-only command ran in DM (ran=%v reply=%q)", p.ran, replied)
	}

	mc.GuildID = "g"
	if err := c.Run(context.Background(), invocation(mc)); err != nil || !p.ran {
		t.Fatalf("command should run in guild: err=%v", err)
	}
}

func TestWithManageChannel(t *testing.T) {
	p := &probe{}
	c := cmd.Apply(p, WithManageChannel())

	err := c.Run(context.Background(), invocation(&command.MessageContext{GuildID: "g"}))
	if !errors.Is(err, command.ErrForbidden) || p.ran {
		t.Fatalf("expected ErrForbidden, got %v (ran=%v)", err, p.ran)
	}

	err = c.Run(context.Background(), invocation(&command.MessageContext{GuildID: "g", CanManageChannel: true}))
	if err != nil || !p.ran {
		t.Fatalf("permitted run failed: %v", err)
	}
}

func TestWithRecover(t *testing.T) {
	c := cmd.Apply(&probe{panic: true}, WithRecover(), WithCommandLogger())
	if err := c.Run(context.Background(), invocation(&command.MessageContext{})); err == nil {
		t.Fatal("expected panic to become an error")
	}
}

package core

import (
	"context"
	"strings"
	"testing"

	"sydneybot/internal/command"
	"sydneybot/internal/persona"
	"sydneybot/pkg/cmd"
)

func TestHelpListsCommandsAndPersonas(t *testing.T) {
	reg := cmd.NewRegistry()
	Register(reg, persona.MustLoad())
	router := command.NewRouter("s!", reg)

	var reply string
	handled := router.Dispatch(context.Background(), "s!help", &command.MessageContext{
		Reply: func(_ context.Context, s string) error {
			reply = s
			return nil
		},
	})
	if !handled {
		t.Fatal("help not handled")
	}
	for _, want := range []string{"`s!help`", "Sydney", "`aisling`", "AI Grilled Cheese"} {
		if !strings.Contains(reply, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

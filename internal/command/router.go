// /internal/command/router.go
package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"sydneybot/pkg/cmd"
)

// GenericFailure is shown when a command fails for an unexpected reason.
const GenericFailure = "Something went wrong while running that command."

// Router dispatches prefixed text commands.
type Router struct {
	prefix   string
	registry *cmd.Registry
}

func NewRouter(prefix string, registry *cmd.Registry) *Router {
	return &Router{prefix: prefix, registry: registry}
}

func (r *Router) Prefix() string {
	return r.prefix
}

func (r *Router) Registry() *cmd.Registry {
	return r.registry
}

// Parse splits "s!name arg..." into its parts. It matches the prefix
// without regard to case.
func (r *Router) Parse(content string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	if len(content) < len(r.prefix) || !strings.EqualFold(content[:len(r.prefix)], r.prefix) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(r.prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// Dispatch runs the command in content if it names a registered command.
// It reports false for anything else, including unknown "s!word" messages,
// which are left for the chat pipeline.
func (r *Router) Dispatch(ctx context.Context, content string, mc *MessageContext) bool {
	name, args, ok := r.Parse(content)
	if !ok {
		return false
	}
	c := r.registry.Get(name)
	if c == nil {
		return false
	}

	if mc.Prefix == "" {
		mc.Prefix = r.prefix
	}
	err := c.Run(ctx, &cmd.Invocation{Name: name, Args: args, Data: mc})
	if err == nil {
		return true
	}

	var reply string
	switch {
	case errors.Is(err, ErrUsage):
		reply = fmt.Sprintf("Usage: `%s%s`", r.prefix, cmd.UsageOf(c))
	case errors.Is(err, ErrForbidden):
		reply = "You need the Manage Channels permission to do that."
	default:
		log.Printf("[ERR] Command %s%s by %s in %s failed: %v", r.prefix, name, mc.AuthorID, mc.ChannelID, err)
		reply = GenericFailure
	}
	if sendErr := mc.Reply(ctx, reply); sendErr != nil {
		log.Printf("[WARN] Failed to answer command %s: %v", name, sendErr)
	}
	return true
}

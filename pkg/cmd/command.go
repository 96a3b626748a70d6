// Package cmd is the transport-neutral command core. A command has a name, a
// description and a Run method; adapters decide how commands are invoked and
// what they put in Invocation.Data.
package cmd

import "context"

// Invocation is one call of a command.
type Invocation struct {
	Name string
	Args []string
	// Data is the adapter's own context, e.g. the chat message that carried
	// the command.
	Data any
}

type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Usager is implemented by commands that take arguments.
type Usager interface {
	Usage() string
}

// UsageOf returns c's usage line, looking through middleware wrappers.
func UsageOf(c Command) string {
	if u, ok := Root(c).(Usager); ok {
		return u.Usage()
	}
	return ""
}

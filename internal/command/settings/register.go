package settings

import (
	"sydneybot/internal/middleware"
	"sydneybot/internal/storage"
	"sydneybot/pkg/cmd"
)

// Register adds the channel and user settings commands to reg.
func Register(reg *cmd.Registry) {
	for _, kind := range []storage.ProbabilityKind{storage.ReplyProbability, storage.ReactionProbability} {
		reg.MustRegister(cmd.Apply(
			&SetProbabilityCommand{Kind: kind},
			middleware.WithManageChannel(),
			middleware.WithGuildOnly(),
			middleware.WithRecover(),
			middleware.WithCommandLogger(),
		))
	}
	reg.MustRegister(
		cmd.Apply(&ShowProbabilitiesCommand{},
			middleware.WithGuildOnly(),
			middleware.WithRecover(),
			middleware.WithCommandLogger(),
		),
		cmd.Apply(&ShowPrefixCommand{}, middleware.WithRecover(), middleware.WithCommandLogger()),
		cmd.Apply(&ClearPrefixCommand{}, middleware.WithRecover(), middleware.WithCommandLogger()),
	)
}

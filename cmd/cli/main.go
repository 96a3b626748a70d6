// cmd/cli/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"sydneybot/internal/config"
	"sydneybot/internal/storage"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	settings, loadErr := config.LoadStore()
	if settings.StoragePath == "" {
		settings.StoragePath = "data/sydneybot.db"
	}
	var dbPath string

	root := &cobra.Command{
		Use:           "sydneybot-cli",
		Short:         "Inspect and edit the bot's stored preferences",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", settings.StoragePath, "path to the SQLite database")

	// The bot's configured defaults must be used here too, since the first
	// write for a channel stores both probabilities.
	open := func() (*storage.Storage, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return storage.NewWithOptions(dbPath, storeOptions(settings))
	}

	root.AddCommand(newPrefixCommand(open), newProbabilityCommand(open), newBackupCommand(open))
	return root
}

func storeOptions(sc config.StoreConfig) storage.Options {
	return storage.Options{
		Defaults: storage.Probabilities{
			Reply:    sc.DefaultReplyProbability,
			Reaction: sc.DefaultReactionProbability,
		},
		BackupCount: sc.BackupCount,
	}
}

type opener func() (*storage.Storage, error)

func withStore(open opener, fn func(ctx context.Context, s *storage.Storage) error) error {
	s, err := open()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(context.Background(), s)
}

func newPrefixCommand(open opener) *cobra.Command {
	c := &cobra.Command{
		Use:   "prefix",
		Short: "Manage per-user reply prefixes",
	}

	c.AddCommand(&cobra.Command{
		Use:   "get <user-id>",
		Short: "Show a user's prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			return withStore(open, func(ctx context.Context, s *storage.Storage) error {
				p, ok, err := s.GetPrefix(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cc.OutOrStdout(), "(none)")
					return nil
				}
				fmt.Fprintln(cc.OutOrStdout(), p)
				return nil
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "set <user-id> <prefix>",
		Short: "Set a user's prefix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cc *cobra.Command, args []string) error {
			return withStore(open, func(ctx context.Context, s *storage.Storage) error {
				if err := s.SetPrefix(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cc.OutOrStdout(), "prefix for %s set\n", args[0])
				return nil
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "clear <user-id>",
		Short: "Remove a user's prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			return withStore(open, func(ctx context.Context, s *storage.Storage) error {
				cleared, err := s.ClearPrefix(ctx, args[0])
				if err != nil {
					return err
				}
				if !cleared {
					fmt.Fprintf(cc.OutOrStdout(), "%s had no prefix\n", args[0])
					return nil
				}
				fmt.Fprintf(cc.OutOrStdout(), "prefix for %s cleared\n", args[0])
				return nil
			})
		},
	})
	return c
}

func newProbabilityCommand(open opener) *cobra.Command {
	c := &cobra.Command{
		Use:   "probability",
		Short: "Manage per-channel reply and reaction probabilities",
	}

	c.AddCommand(&cobra.Command{
		Use:   "get <guild-id> <channel-id>",
		Short: "Show a channel's probabilities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cc *cobra.Command, args []string) error {
			return withStore(open, func(ctx context.Context, s *storage.Storage) error {
				p, err := s.GetProbabilities(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				printProbabilities(cc.OutOrStdout(), p)
				return nil
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "set <guild-id> <channel-id> <reply|reaction> <value>",
		Short: "Set one of a channel's probabilities",
		Args:  cobra.ExactArgs(4),
		RunE: func(cc *cobra.Command, args []string) error {
			kind, err := storage.ParseProbabilityKind(args[2])
			if err != nil {
				return err
			}
			value, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return fmt.Errorf("invalid probability %q: %w", args[3], err)
			}
			return withStore(open, func(ctx context.Context, s *storage.Storage) error {
				if err := s.SetProbability(ctx, args[0], args[1], kind, value); err != nil {
					return err
				}
				p, err := s.GetProbabilities(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				printProbabilities(cc.OutOrStdout(), p)
				return nil
			})
		},
	})
	return c
}

func newBackupCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the database now",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, args []string) error {
			return withStore(open, func(ctx context.Context, s *storage.Storage) error {
				path, err := s.BackupNow(ctx)
				if err != nil {
					return err
				}
				log.Printf("[INFO] Backup written to %s", path)
				fmt.Fprintln(cc.OutOrStdout(), path)
				return nil
			})
		},
	}
}

func printProbabilities(w io.Writer, p storage.Probabilities) {
	fmt.Fprintf(w, "reply:    %.2f\nreaction: %.2f\n", p.Reply, p.Reaction)
}

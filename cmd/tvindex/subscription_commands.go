package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"tvindex/internal/catalog"
)

func newSubscribeCommand(ctx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "subscribe [show]...",
		Short: "Subscribe to shows so new releases are queued",
		Long: "Subscribe to shows. Known shows are flagged at once; unknown names are kept\n" +
			"and applied when the show first appears in a listing. With no arguments the\n" +
			"configured subscriptions file is read when it exists, otherwise the current\n" +
			"subscriptions are listed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			names := args
			if path := strings.TrimSpace(fromFile); path != "" {
				fileNames, err := catalog.LoadSubscriptionsFile(path)
				if err != nil {
					return err
				}
				names = append(names, fileNames...)
			} else if len(args) == 0 {
				fileNames, err := catalog.LoadSubscriptionsFile(cfg.SubscriptionsPath())
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				names = fileNames
			}

			out := cmd.OutOrStdout()
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				if len(names) == 0 {
					subs := cat.Subscriptions()
					if len(subs) == 0 {
						fmt.Fprintln(out, "No subscriptions")
					}
					for _, key := range subs {
						fmt.Fprintln(out, catalog.DisplayTitle(key))
					}
					return nil
				}
				report, err := cat.SetSubscriptions(names)
				if err != nil {
					return err
				}
				for _, key := range report.Applied {
					fmt.Fprintf(out, "subscribed: %s\n", catalog.DisplayTitle(key))
				}
				for _, key := range report.Pending {
					fmt.Fprintf(out, "pending:    %s (not seen yet)\n", catalog.DisplayTitle(key))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read show names from a {\"shows_subscribed\": [...]} file")
	return cmd
}

func newUnsubscribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <show>...",
		Short: "Stop queueing new releases of shows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				if err := cat.Unsubscribe(args); err != nil {
					return err
				}
				for _, name := range args {
					fmt.Fprintf(cmd.OutOrStdout(), "unsubscribed: %s\n", catalog.DisplayTitle(catalog.CanonicalKey(name)))
				}
				return nil
			})
		},
	}
}

func newWatchlistCommand(ctx *commandContext) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage shows to keep an eye on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				keys := cat.Watchlist()
				if len(keys) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Watchlist is empty")
				}
				for _, key := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), catalog.DisplayTitle(key))
				}
				return nil
			})
		},
	}

	set := func(use, short string, on bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <show>...",
			Short: short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withCatalog(func(cat *catalog.Catalog) error {
					if err := cat.SetWatchlist(args, on); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "watchlist: %d show(s) updated\n", len(args))
					return nil
				})
			},
		}
	}
	watchCmd.AddCommand(set("add", "Add shows to the watchlist", true))
	watchCmd.AddCommand(set("remove", "Remove shows from the watchlist", false))
	return watchCmd
}

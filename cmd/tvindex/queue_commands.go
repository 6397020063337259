package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tvindex/internal/catalog"
	"tvindex/internal/queuelog"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "List download links queued for the downloader",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Read without opening the catalog so this works while serve runs.
			entries, err := queuelog.ReadEntries(cfg.QueueLogPath())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "Queue log %s is empty\n", cfg.QueueLogPath())
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, uri := range entries {
				rows = append(rows, []string{fmt.Sprintf("%d", i+1), uri})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Link"}, rows, []columnAlignment{alignRight, alignLeft}, shouldColorize(out)))
			return nil
		},
	}
}

func newMarkCommand(ctx *commandContext) *cobra.Command {
	markCmd := &cobra.Command{
		Use:   "mark",
		Short: "Record what happened to a file or episode",
	}

	markCmd.AddCommand(&cobra.Command{
		Use:   "downloaded <file-key>",
		Short: "Mark a file as downloaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				if err := cat.MarkDownloaded(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: downloaded\n", args[0])
				return nil
			})
		},
	})

	markCmd.AddCommand(&cobra.Command{
		Use:   "deleted <file-key>",
		Short: "Mark a downloaded file as deleted from disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				if err := cat.MarkDeleted(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted\n", args[0])
				return nil
			})
		},
	})

	markCmd.AddCommand(&cobra.Command{
		Use:   "viewed <show> <SxxEyy>",
		Short: "Mark an episode as watched",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := args[len(args)-1]
			season, episode, err := parseEpisodeLabel(label)
			if err != nil {
				return err
			}
			title := strings.Join(args[:len(args)-1], " ")
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				if err := cat.MarkEpisodeViewed(title, season, episode); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: viewed\n", title, catalog.EpisodeID{Season: season, Episode: episode})
				return nil
			})
		},
	})

	return markCmd
}

func parseEpisodeLabel(label string) (int, int, error) {
	var season, episode int
	if _, err := fmt.Sscanf(strings.ToUpper(strings.TrimSpace(label)), "S%dE%d", &season, &episode); err != nil {
		return 0, 0, fmt.Errorf("episode %q: want the form S01E02", label)
	}
	return season, episode, nil
}
